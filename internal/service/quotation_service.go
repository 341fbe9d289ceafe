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

// QuotationService manages quotations and their promotion into contracts.
type QuotationService struct {
	db            *gorm.DB
	quotationRepo *repository.QuotationRepository
	leadRepo      *repository.LeadRepository
	pksRepo       *repository.PksRepository
	siteRepo      *repository.SiteRepository
	activityRepo  *repository.ActivityRepository
	numberSvc     *NumberService
	logger        *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	db *gorm.DB,
	quotationRepo *repository.QuotationRepository,
	leadRepo *repository.LeadRepository,
	pksRepo *repository.PksRepository,
	siteRepo *repository.SiteRepository,
	activityRepo *repository.ActivityRepository,
	numberSvc *NumberService,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		db:            db,
		quotationRepo: quotationRepo,
		leadRepo:      leadRepo,
		pksRepo:       pksRepo,
		siteRepo:      siteRepo,
		activityRepo:  activityRepo,
		numberSvc:     numberSvc,
		logger:        logger,
	}
}

// Create registers a new quotation for a lead and records it on the timeline
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if err := s.verifySites(ctx, req.Sites); err != nil {
		return nil, err
	}

	now := time.Now()
	actor := auth.Actor(ctx)

	nomor, err := s.numberSvc.GenerateQuotationNomor(ctx, lead.Nomor, now)
	if err != nil {
		return nil, err
	}
	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, lead.NeedCategory, lead.Nomor, now)
	if err != nil {
		return nil, err
	}

	quotation := &domain.Quotation{
		Nomor:  nomor,
		LeadID: lead.ID,
		Title:  req.Title,
		Amount: req.Amount,
		Status: domain.QuotationStatusDraft,
		Notes:  req.Notes,
	}
	quotation.CreatedBy = actor
	quotation.UpdatedBy = actor
	for _, site := range req.Sites {
		quotation.Sites = append(quotation.Sites, domain.QuotationSite{
			SiteID:          site.SiteID,
			MonthlyFee:      site.MonthlyFee,
			InstallationFee: site.InstallationFee,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.quotationRepo.CreateTx(ctx, tx, quotation); err != nil {
			return fmt.Errorf("failed to create quotation: %w", err)
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityQuotationCreated,
			Title:        "Penawaran dibuat",
			Body:         fmt.Sprintf("Penawaran %s untuk %s", quotation.Nomor, lead.CompanyName),
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record quotation activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation created",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("nomor", quotation.Nomor),
		zap.String("lead_nomor", lead.Nomor),
	)

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// GetByID returns a single quotation with its priced sites
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// List returns a page of quotations
func (s *QuotationService) List(ctx context.Context, page, pageSize int, search string, leadID *uuid.UUID) (*domain.PaginatedResponse, error) {
	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, search, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	return &domain.PaginatedResponse{
		Data:       mapper.ToQuotationDTOs(quotations),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits a quotation's title, amount, status and notes
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	quotation.Title = req.Title
	quotation.Amount = req.Amount
	quotation.Notes = req.Notes
	if req.Status != "" {
		quotation.Status = req.Status
	}
	quotation.UpdatedBy = auth.Actor(ctx)

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Delete soft-deletes a quotation
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.quotationRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotationNotFound
		}
		return fmt.Errorf("failed to get quotation: %w", err)
	}
	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	return nil
}

// Approve marks a quotation approved and creates the draft contract for it
// in the same transaction. The contract inherits the quotation's sites and
// gets its own document number under the chosen legal entity.
func (s *QuotationService) Approve(ctx context.Context, id uuid.UUID, req *domain.ApproveQuotationRequest) (*domain.PksDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != domain.QuotationStatusDraft && quotation.Status != domain.QuotationStatusSent {
		return nil, ErrQuotationNotApprovable
	}
	if !req.KontrakAkhir.After(req.KontrakAwal) {
		return nil, ErrContractDates
	}

	lead, err := s.leadRepo.GetByID(ctx, quotation.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	now := time.Now()
	actor := auth.Actor(ctx)

	pksNomor, err := s.numberSvc.GeneratePksNomor(ctx, req.EntityCode, lead.Nomor, now)
	if err != nil {
		return nil, err
	}
	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, lead.NeedCategory, lead.Nomor, now)
	if err != nil {
		return nil, err
	}

	kontrakAwal := req.KontrakAwal
	kontrakAkhir := req.KontrakAkhir
	pks := &domain.Pks{
		Nomor:        pksNomor,
		LeadID:       lead.ID,
		QuotationID:  &quotation.ID,
		EntityCode:   req.EntityCode,
		KontrakAwal:  &kontrakAwal,
		KontrakAkhir: &kontrakAkhir,
		Status:       domain.PksStatusDraft,
	}
	pks.CreatedBy = actor
	pks.UpdatedBy = actor
	for _, qs := range quotation.Sites {
		pks.Sites = append(pks.Sites, domain.PksSite{SiteID: qs.SiteID})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quotation.Status = domain.QuotationStatusApproved
		quotation.UpdatedBy = actor
		if err := tx.Save(quotation).Error; err != nil {
			return fmt.Errorf("failed to approve quotation: %w", err)
		}
		if err := s.pksRepo.CreateTx(ctx, tx, pks); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityPksCreated,
			Title:        "PKS dibuat",
			Body:         fmt.Sprintf("PKS %s dibuat dari penawaran %s", pks.Nomor, quotation.Nomor),
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record contract activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation approved into contract",
		zap.String("quotation_nomor", quotation.Nomor),
		zap.String("pks_nomor", pks.Nomor),
	)

	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}

func (s *QuotationService) verifySites(ctx context.Context, inputs []domain.QuotationSiteInput) error {
	if len(inputs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(inputs))
	for i, in := range inputs {
		ids[i] = in.SiteID
	}
	sites, err := s.siteRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify sites: %w", err)
	}
	if len(sites) != len(ids) {
		return ErrSiteNotFound
	}
	return nil
}
