package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type SpkRepository struct {
	db *gorm.DB
}

func NewSpkRepository(db *gorm.DB) *SpkRepository {
	return &SpkRepository{db: db}
}

func (r *SpkRepository) Create(ctx context.Context, spk *domain.Spk) error {
	return r.db.WithContext(ctx).Create(spk).Error
}

func (r *SpkRepository) CreateTx(ctx context.Context, tx *gorm.DB, spk *domain.Spk) error {
	return tx.WithContext(ctx).Create(spk).Error
}

func (r *SpkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Spk, error) {
	var spk domain.Spk
	err := r.db.WithContext(ctx).
		Preload("Sites.Site").
		Where("id = ?", id).
		First(&spk).Error
	if err != nil {
		return nil, err
	}
	return &spk, nil
}

func (r *SpkRepository) Update(ctx context.Context, spk *domain.Spk) error {
	return r.db.WithContext(ctx).Save(spk).Error
}

func (r *SpkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Spk{}, "id = ?", id).Error
}

func (r *SpkRepository) List(ctx context.Context, page, pageSize int, search string, leadID *uuid.UUID, status domain.SpkStatus) ([]domain.Spk, int64, error) {
	var orders []domain.Spk
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Spk{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(nomor) LIKE ?", searchPattern)
	}
	if leadID != nil {
		query = query.Where("lead_id = ?", *leadID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Sites.Site").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&orders).Error

	return orders, total, err
}

func (r *SpkRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Spk, error) {
	var orders []domain.Spk
	err := r.db.WithContext(ctx).
		Preload("Sites.Site").
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
