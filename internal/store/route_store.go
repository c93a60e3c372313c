package store

import (
	"context"

	"gorm.io/gorm"

	"isl_signage/internal/models"
)

// RouteRequest carries the fields needed to create a train route.
type RouteRequest struct {
	TrainNumber     string `json:"train_number" binding:"required,len=5"`
	TrainName       string `json:"train_name" binding:"required"`
	FromStationName string `json:"from_station_name" binding:"required"`
	FromStationCode string `json:"from_station_code" binding:"required,max=10"`
	ToStationName   string `json:"to_station_name" binding:"required"`
	ToStationCode   string `json:"to_station_code" binding:"required,max=10"`
}

// RouteStore creates and deletes train route records. The provisioning saga
// only depends on this interface so it can be driven against fakes in tests.
type RouteStore interface {
	Create(ctx context.Context, req RouteRequest) (*models.TrainRoute, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.TrainRoute, error)
	GetByID(ctx context.Context, id uint) (*models.TrainRoute, error)
}

type gormRouteStore struct {
	db *gorm.DB
}

// NewRouteStore returns the gorm-backed route store.
func NewRouteStore(db *gorm.DB) RouteStore {
	return &gormRouteStore{db: db}
}

func (s *gormRouteStore) Create(ctx context.Context, req RouteRequest) (*models.TrainRoute, error) {
	route := models.TrainRoute{
		TrainNumber:     req.TrainNumber,
		TrainName:       req.TrainName,
		FromStationName: req.FromStationName,
		FromStationCode: req.FromStationCode,
		ToStationName:   req.ToStationName,
		ToStationCode:   req.ToStationCode,
	}
	if err := s.db.WithContext(ctx).Create(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (s *gormRouteStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Unscoped().Delete(&models.TrainRoute{}, id).Error
}

func (s *gormRouteStore) List(ctx context.Context) ([]models.TrainRoute, error) {
	var routes []models.TrainRoute
	if err := s.db.WithContext(ctx).Preload("Translation").Order("created_at desc").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (s *gormRouteStore) GetByID(ctx context.Context, id uint) (*models.TrainRoute, error) {
	var route models.TrainRoute
	if err := s.db.WithContext(ctx).Preload("Translation").First(&route, id).Error; err != nil {
		return nil, err
	}
	return &route, nil
}
