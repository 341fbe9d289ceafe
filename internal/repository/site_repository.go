package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"gorm.io/gorm"
)

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) Create(ctx context.Context, site *domain.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	var site domain.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Site, error) {
	var sites []domain.Site
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sites).Error
	return sites, err
}

func (r *SiteRepository) Update(ctx context.Context, site *domain.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

func (r *SiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Site{}, "id = ?", id).Error
}

func (r *SiteRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Site, int64, error) {
	var sites []domain.Site
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Site{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&sites).Error

	return sites, total, err
}
