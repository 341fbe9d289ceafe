package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/auth"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/mapper"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SpkService manages work orders issued against contracts or quotations.
type SpkService struct {
	db           *gorm.DB
	spkRepo      *repository.SpkRepository
	leadRepo     *repository.LeadRepository
	pksRepo      *repository.PksRepository
	siteRepo     *repository.SiteRepository
	activityRepo *repository.ActivityRepository
	numberSvc    *NumberService
	logger       *zap.Logger
}

// NewSpkService creates a new SpkService
func NewSpkService(
	db *gorm.DB,
	spkRepo *repository.SpkRepository,
	leadRepo *repository.LeadRepository,
	pksRepo *repository.PksRepository,
	siteRepo *repository.SiteRepository,
	activityRepo *repository.ActivityRepository,
	numberSvc *NumberService,
	logger *zap.Logger,
) *SpkService {
	return &SpkService{
		db:           db,
		spkRepo:      spkRepo,
		leadRepo:     leadRepo,
		pksRepo:      pksRepo,
		siteRepo:     siteRepo,
		activityRepo: activityRepo,
		numberSvc:    numberSvc,
		logger:       logger,
	}
}

// Create issues a new work order. When the order references a contract, the
// entity code is inherited from it unless explicitly overridden.
func (s *SpkService) Create(ctx context.Context, req *domain.CreateSpkRequest) (*domain.SpkDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	entityCode := req.EntityCode
	if req.PksID != nil {
		pks, err := s.pksRepo.GetByID(ctx, *req.PksID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPksNotFound
			}
			return nil, fmt.Errorf("failed to get contract: %w", err)
		}
		if pks.LeadID != lead.ID {
			return nil, ErrInvalidInput
		}
		if entityCode == "" {
			entityCode = pks.EntityCode
		}
	}

	if len(req.SiteIDs) > 0 {
		sites, err := s.siteRepo.GetByIDs(ctx, req.SiteIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to verify sites: %w", err)
		}
		if len(sites) != len(req.SiteIDs) {
			return nil, ErrSiteNotFound
		}
	}

	now := time.Now()
	actor := auth.Actor(ctx)

	nomor, err := s.numberSvc.GenerateSpkNomor(ctx, entityCode, lead.Nomor, now)
	if err != nil {
		return nil, err
	}
	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, lead.NeedCategory, lead.Nomor, now)
	if err != nil {
		return nil, err
	}

	spk := &domain.Spk{
		Nomor:       nomor,
		LeadID:      lead.ID,
		PksID:       req.PksID,
		QuotationID: req.QuotationID,
		EntityCode:  entityCode,
		Description: req.Description,
		Status:      domain.SpkStatusOpen,
	}
	spk.CreatedBy = actor
	spk.UpdatedBy = actor
	for _, siteID := range req.SiteIDs {
		spk.Sites = append(spk.Sites, domain.SpkSite{SiteID: siteID})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.spkRepo.CreateTx(ctx, tx, spk); err != nil {
			return fmt.Errorf("failed to create work order: %w", err)
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivitySpkCreated,
			Title:        "SPK dibuat",
			Body:         fmt.Sprintf("SPK %s untuk %s", spk.Nomor, lead.CompanyName),
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record work order activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order created",
		zap.String("spk_id", spk.ID.String()),
		zap.String("nomor", spk.Nomor),
	)

	dto := mapper.ToSpkDTO(spk)
	return &dto, nil
}

// GetByID returns a single work order
func (s *SpkService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SpkDTO, error) {
	spk, err := s.spkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpkNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	dto := mapper.ToSpkDTO(spk)
	return &dto, nil
}

// List returns a page of work orders
func (s *SpkService) List(ctx context.Context, page, pageSize int, search string, leadID *uuid.UUID, status domain.SpkStatus) (*domain.PaginatedResponse, error) {
	orders, total, err := s.spkRepo.List(ctx, page, pageSize, search, leadID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return &domain.PaginatedResponse{
		Data:       mapper.ToSpkDTOs(orders),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits a work order's description and status
func (s *SpkService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSpkRequest) (*domain.SpkDTO, error) {
	spk, err := s.spkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpkNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	spk.Description = req.Description
	if req.Status != "" {
		spk.Status = req.Status
	}
	spk.UpdatedBy = auth.Actor(ctx)

	if err := s.spkRepo.Update(ctx, spk); err != nil {
		return nil, fmt.Errorf("failed to update work order: %w", err)
	}

	dto := mapper.ToSpkDTO(spk)
	return &dto, nil
}

// Delete soft-deletes a work order
func (s *SpkService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.spkRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpkNotFound
		}
		return fmt.Errorf("failed to get work order: %w", err)
	}
	if err := s.spkRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}
	return nil
}
