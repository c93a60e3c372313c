package models

import (
	"gorm.io/gorm"
)

// TrainRoute represents one provisioned railway route.
// The translation bundle is 1:1 and is removed together with the route.
type TrainRoute struct {
	gorm.Model

	TrainNumber     string `json:"train_number" gorm:"size:5;unique;index" binding:"required"`
	TrainName       string `json:"train_name" binding:"required"`
	FromStationName string `json:"from_station_name" binding:"required"`
	FromStationCode string `json:"from_station_code" gorm:"size:10" binding:"required"`
	ToStationName   string `json:"to_station_name" binding:"required"`
	ToStationCode   string `json:"to_station_code" gorm:"size:10" binding:"required"`

	// Associations
	Translation *TrainRouteTranslation `gorm:"foreignKey:TrainRouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"translation,omitempty"`
}
