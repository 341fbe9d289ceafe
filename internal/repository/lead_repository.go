package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) CreateTx(ctx context.Context, tx *gorm.DB, lead *domain.Lead) error {
	return tx.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetByIDWithContracts loads a lead together with its non-deleted contracts,
// which is what the lifecycle sync needs to decide the active flag.
func (r *LeadRepository) GetByIDWithContracts(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).
		Preload("Contracts").
		Where("id = ?", id).
		First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id).Error
}

func (r *LeadRepository) List(ctx context.Context, page, pageSize int, search string, status domain.LeadStatus) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(company_name) LIKE ? OR LOWER(nomor) LIKE ?", searchPattern, searchPattern)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&leads).Error

	return leads, total, err
}

// GetLatestNomor returns the code of the most recently created lead, or empty
// when no leads exist yet. Ordering must be by creation time, not by code:
// the code sequence wraps Z to 0 so it is not lexicographically monotonic.
// Soft-deleted leads still count so their codes are never reissued.
func (r *LeadRepository) GetLatestNomor(ctx context.Context) (string, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Unscoped().
		Order("created_at DESC").
		Select("nomor").
		First(&lead).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return lead.Nomor, nil
}

// ListCompanyNames returns the company names of all non-deleted leads,
// excluding the given lead id when updating an existing record.
func (r *LeadRepository) ListCompanyNames(ctx context.Context, excludeID *uuid.UUID) ([]string, error) {
	var names []string
	query := r.db.WithContext(ctx).Model(&domain.Lead{})
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Pluck("company_name", &names).Error
	return names, err
}

// ListWithCustomers returns all leads that have been converted to customers,
// the population the lifecycle resync walks.
func (r *LeadRepository) ListWithCustomers(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Preload("Contracts").
		Where("customer_id IS NOT NULL").
		Find(&leads).Error
	return leads, err
}

func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).Count(&count).Error
	return int(count), err
}
