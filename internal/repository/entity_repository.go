package repository

import (
	"context"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type EntityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

func (r *EntityRepository) GetByCode(ctx context.Context, code string) (*domain.Entity, error) {
	var entity domain.Entity
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *EntityRepository) List(ctx context.Context) ([]domain.Entity, error) {
	var entities []domain.Entity
	err := r.db.WithContext(ctx).Order("code ASC").Find(&entities).Error
	return entities, err
}

func (r *EntityRepository) Upsert(ctx context.Context, entity *domain.Entity) error {
	return r.db.WithContext(ctx).Save(entity).Error
}
