package store

import (
	"context"

	"gorm.io/gorm"

	"isl_signage/internal/models"
)

// TranslationStore persists the 12-field multilingual bundle attached to a
// route. Like RouteStore it is an interface boundary for the saga.
type TranslationStore interface {
	Create(ctx context.Context, bundle *models.TrainRouteTranslation) (*models.TrainRouteTranslation, error)
	Delete(ctx context.Context, id uint) error
	GetByRouteID(ctx context.Context, routeID uint) (*models.TrainRouteTranslation, error)
}

type gormTranslationStore struct {
	db *gorm.DB
}

// NewTranslationStore returns the gorm-backed translation store.
func NewTranslationStore(db *gorm.DB) TranslationStore {
	return &gormTranslationStore{db: db}
}

func (s *gormTranslationStore) Create(ctx context.Context, bundle *models.TrainRouteTranslation) (*models.TrainRouteTranslation, error) {
	if err := s.db.WithContext(ctx).Create(bundle).Error; err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *gormTranslationStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Unscoped().Delete(&models.TrainRouteTranslation{}, id).Error
}

func (s *gormTranslationStore) GetByRouteID(ctx context.Context, routeID uint) (*models.TrainRouteTranslation, error) {
	var bundle models.TrainRouteTranslation
	if err := s.db.WithContext(ctx).Where("train_route_id = ?", routeID).First(&bundle).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}
