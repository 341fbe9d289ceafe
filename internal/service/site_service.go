package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/auth"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/mapper"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SiteService manages the sites quotations, contracts and work orders refer to.
type SiteService struct {
	siteRepo *repository.SiteRepository
	logger   *zap.Logger
}

// NewSiteService creates a new SiteService
func NewSiteService(siteRepo *repository.SiteRepository, logger *zap.Logger) *SiteService {
	return &SiteService{siteRepo: siteRepo, logger: logger}
}

// Create registers a new site
func (s *SiteService) Create(ctx context.Context, req *domain.CreateSiteRequest) (*domain.SiteDTO, error) {
	actor := auth.Actor(ctx)
	site := &domain.Site{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}
	site.CreatedBy = actor
	site.UpdatedBy = actor

	if err := s.siteRepo.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	dto := mapper.ToSiteDTO(site)
	return &dto, nil
}

// GetByID returns a single site
func (s *SiteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SiteDTO, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	dto := mapper.ToSiteDTO(site)
	return &dto, nil
}

// List returns a page of sites ordered by name
func (s *SiteService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	sites, total, err := s.siteRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return &domain.PaginatedResponse{
		Data:       mapper.ToSiteDTOs(sites),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits a site
func (s *SiteService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateSiteRequest) (*domain.SiteDTO, error) {
	site, err := s.siteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	site.Name = req.Name
	site.Address = req.Address
	site.City = req.City
	site.UpdatedBy = auth.Actor(ctx)

	if err := s.siteRepo.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to update site: %w", err)
	}

	dto := mapper.ToSiteDTO(site)
	return &dto, nil
}

// Delete soft-deletes a site
func (s *SiteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.siteRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		return fmt.Errorf("failed to get site: %w", err)
	}
	return s.siteRepo.Delete(ctx, id)
}
