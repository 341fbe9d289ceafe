package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.CustomerActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) CreateTx(ctx context.Context, tx *gorm.DB, activity *domain.CustomerActivity) error {
	return tx.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerActivity, error) {
	var activity domain.CustomerActivity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID uuid.UUID, page, pageSize int) ([]domain.CustomerActivity, int64, error) {
	var activities []domain.CustomerActivity
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.CustomerActivity{}).Where("lead_id = ?", leadID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&activities).Error

	return activities, total, err
}
