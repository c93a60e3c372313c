package models

import (
	"gorm.io/gorm"
)

// TrainRouteTranslation holds the full multilingual bundle for one route:
// {train name, from station, to station} x {en, hi, mr, gu}.
type TrainRouteTranslation struct {
	gorm.Model

	TrainRouteID uint `json:"train_route_id" gorm:"uniqueIndex" binding:"required"`

	// English (source language)
	TrainNameEn       string `json:"train_name_en"`
	FromStationNameEn string `json:"from_station_name_en"`
	ToStationNameEn   string `json:"to_station_name_en"`

	// Hindi
	TrainNameHi       string `json:"train_name_hi"`
	FromStationNameHi string `json:"from_station_name_hi"`
	ToStationNameHi   string `json:"to_station_name_hi"`

	// Marathi
	TrainNameMr       string `json:"train_name_mr"`
	FromStationNameMr string `json:"from_station_name_mr"`
	ToStationNameMr   string `json:"to_station_name_mr"`

	// Gujarati
	TrainNameGu       string `json:"train_name_gu"`
	FromStationNameGu string `json:"from_station_name_gu"`
	ToStationNameGu   string `json:"to_station_name_gu"`
}
