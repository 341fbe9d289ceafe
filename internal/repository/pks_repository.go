package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type PksRepository struct {
	db *gorm.DB
}

func NewPksRepository(db *gorm.DB) *PksRepository {
	return &PksRepository{db: db}
}

func (r *PksRepository) Create(ctx context.Context, pks *domain.Pks) error {
	return r.db.WithContext(ctx).Create(pks).Error
}

func (r *PksRepository) CreateTx(ctx context.Context, tx *gorm.DB, pks *domain.Pks) error {
	return tx.WithContext(ctx).Create(pks).Error
}

func (r *PksRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pks, error) {
	var pks domain.Pks
	err := r.db.WithContext(ctx).
		Preload("Sites.Site").
		Where("id = ?", id).
		First(&pks).Error
	if err != nil {
		return nil, err
	}
	return &pks, nil
}

func (r *PksRepository) Update(ctx context.Context, pks *domain.Pks) error {
	return r.db.WithContext(ctx).Save(pks).Error
}

func (r *PksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Pks{}, "id = ?", id).Error
}

func (r *PksRepository) List(ctx context.Context, page, pageSize int, search string, leadID *uuid.UUID, status domain.PksStatus) ([]domain.Pks, int64, error) {
	var contracts []domain.Pks
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Pks{})

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
	err := query.Preload("Sites.Site").Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&contracts).Error

	return contracts, total, err
}

func (r *PksRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Pks, error) {
	var contracts []domain.Pks
	err := r.db.WithContext(ctx).
		Preload("Sites.Site").
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

// ListExpiring returns active contracts whose end date falls on or before the
// given cutoff, ordered soonest first. Used by the expiry report.
func (r *PksRepository) ListExpiring(ctx context.Context, cutoff time.Time) ([]domain.Pks, error) {
	var contracts []domain.Pks
	err := r.db.WithContext(ctx).
		Where("is_aktif = ? AND kontrak_akhir IS NOT NULL AND kontrak_akhir <= ?", true, cutoff).
		Order("kontrak_akhir ASC").
		Find(&contracts).Error
	return contracts, err
}
