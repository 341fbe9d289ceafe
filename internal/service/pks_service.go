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

// PksService manages contracts: creation, the five-level approval chain, and
// activation. Activating a lead's first contract converts the lead into a
// customer exactly once.
type PksService struct {
	db           *gorm.DB
	pksRepo      *repository.PksRepository
	leadRepo     *repository.LeadRepository
	customerRepo *repository.CustomerRepository
	entityRepo   *repository.EntityRepository
	siteRepo     *repository.SiteRepository
	activityRepo *repository.ActivityRepository
	numberSvc    *NumberService
	lifecycleSvc *LifecycleService
	logger       *zap.Logger
}

// NewPksService creates a new PksService
func NewPksService(
	db *gorm.DB,
	pksRepo *repository.PksRepository,
	leadRepo *repository.LeadRepository,
	customerRepo *repository.CustomerRepository,
	entityRepo *repository.EntityRepository,
	siteRepo *repository.SiteRepository,
	activityRepo *repository.ActivityRepository,
	numberSvc *NumberService,
	lifecycleSvc *LifecycleService,
	logger *zap.Logger,
) *PksService {
	return &PksService{
		db:           db,
		pksRepo:      pksRepo,
		leadRepo:     leadRepo,
		customerRepo: customerRepo,
		entityRepo:   entityRepo,
		siteRepo:     siteRepo,
		activityRepo: activityRepo,
		numberSvc:    numberSvc,
		lifecycleSvc: lifecycleSvc,
		logger:       logger,
	}
}

// Create registers a contract directly, without going through a quotation
func (s *PksService) Create(ctx context.Context, req *domain.CreatePksRequest) (*domain.PksDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if _, err := s.entityRepo.GetByCode(ctx, req.EntityCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	if !req.KontrakAkhir.After(req.KontrakAwal) {
		return nil, ErrContractDates
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

	nomor, err := s.numberSvc.GeneratePksNomor(ctx, req.EntityCode, lead.Nomor, now)
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
		Nomor:        nomor,
		LeadID:       lead.ID,
		QuotationID:  req.QuotationID,
		EntityCode:   req.EntityCode,
		KontrakAwal:  &kontrakAwal,
		KontrakAkhir: &kontrakAkhir,
		Status:       domain.PksStatusDraft,
		Notes:        req.Notes,
	}
	pks.CreatedBy = actor
	pks.UpdatedBy = actor
	for _, siteID := range req.SiteIDs {
		pks.Sites = append(pks.Sites, domain.PksSite{SiteID: siteID})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.pksRepo.CreateTx(ctx, tx, pks); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityPksCreated,
			Title:        "PKS dibuat",
			Body:         fmt.Sprintf("PKS %s untuk %s", pks.Nomor, lead.CompanyName),
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

	s.logger.Info("contract created",
		zap.String("pks_id", pks.ID.String()),
		zap.String("nomor", pks.Nomor),
	)

	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}

// GetByID returns a single contract with derived expiry fields
func (s *PksService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PksDTO, error) {
	pks, err := s.pksRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPksNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}

// List returns a page of contracts
func (s *PksService) List(ctx context.Context, page, pageSize int, search string, leadID *uuid.UUID, status domain.PksStatus) (*domain.PaginatedResponse, error) {
	contracts, total, err := s.pksRepo.List(ctx, page, pageSize, search, leadID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return &domain.PaginatedResponse{
		Data:       mapper.ToPksDTOs(contracts),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListExpiring returns active contracts ending within the given number of
// days, soonest first.
func (s *PksService) ListExpiring(ctx context.Context, days int) ([]domain.PksDTO, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	contracts, err := s.pksRepo.ListExpiring(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring contracts: %w", err)
	}
	return mapper.ToPksDTOs(contracts), nil
}

// Update edits a contract's entity, period and notes. Changing the period of
// an active contract reflows the lead's active flag.
func (s *PksService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePksRequest) (*domain.PksDTO, error) {
	pks, err := s.pksRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPksNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if !req.KontrakAkhir.After(req.KontrakAwal) {
		return nil, ErrContractDates
	}
	if req.EntityCode != "" {
		if _, err := s.entityRepo.GetByCode(ctx, req.EntityCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEntityNotFound
			}
			return nil, fmt.Errorf("failed to get entity: %w", err)
		}
		pks.EntityCode = req.EntityCode
	}

	kontrakAwal := req.KontrakAwal
	kontrakAkhir := req.KontrakAkhir
	pks.KontrakAwal = &kontrakAwal
	pks.KontrakAkhir = &kontrakAkhir
	pks.Notes = req.Notes
	pks.UpdatedBy = auth.Actor(ctx)

	if err := s.pksRepo.Update(ctx, pks); err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	if _, err := s.lifecycleSvc.SyncLead(ctx, pks.LeadID); err != nil {
		s.logger.Warn("lifecycle sync after contract update failed",
			zap.String("lead_id", pks.LeadID.String()),
			zap.Error(err),
		)
	}

	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}

// Delete soft-deletes a contract and reflows the lead's active flag, since a
// deleted contract no longer counts toward it.
func (s *PksService) Delete(ctx context.Context, id uuid.UUID) error {
	pks, err := s.pksRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPksNotFound
		}
		return fmt.Errorf("failed to get contract: %w", err)
	}
	if err := s.pksRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if _, err := s.lifecycleSvc.SyncLead(ctx, pks.LeadID); err != nil {
		s.logger.Warn("lifecycle sync after contract delete failed",
			zap.String("lead_id", pks.LeadID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// Approve advances a contract one approval level. Draft contracts enter the
// approval chain at level 1; reaching the final level marks the contract
// approved and ready for activation.
func (s *PksService) Approve(ctx context.Context, id uuid.UUID) (*domain.PksDTO, error) {
	pks, err := s.pksRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPksNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if pks.Status != domain.PksStatusDraft && pks.Status != domain.PksStatusInApproval {
		return nil, ErrPksNotApprovable
	}

	lead, err := s.leadRepo.GetByID(ctx, pks.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	now := time.Now()
	actor := auth.Actor(ctx)
	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, lead.NeedCategory, lead.Nomor, now)
	if err != nil {
		return nil, err
	}

	pks.ApprovalLevel++
	if pks.ApprovalLevel >= domain.MaxApprovalLevel {
		pks.ApprovalLevel = domain.MaxApprovalLevel
		pks.Status = domain.PksStatusApproved
	} else {
		pks.Status = domain.PksStatusInApproval
	}
	pks.UpdatedBy = actor

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(pks).Error; err != nil {
			return fmt.Errorf("failed to approve contract: %w", err)
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityPksApproved,
			Title:        "PKS disetujui",
			Body:         fmt.Sprintf("PKS %s disetujui pada level %d", pks.Nomor, pks.ApprovalLevel),
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record approval activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}

// Reject ends the approval chain for a contract
func (s *PksService) Reject(ctx context.Context, id uuid.UUID) (*domain.PksDTO, error) {
	pks, err := s.pksRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPksNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if pks.Status != domain.PksStatusDraft && pks.Status != domain.PksStatusInApproval {
		return nil, ErrPksNotApprovable
	}

	pks.Status = domain.PksStatusRejected
	pks.UpdatedBy = auth.Actor(ctx)
	if err := s.pksRepo.Update(ctx, pks); err != nil {
		return nil, fmt.Errorf("failed to reject contract: %w", err)
	}

	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}

// Activate turns a fully approved contract on. The first activation for a
// lead creates its customer record and flips the lead's status; later
// activations only refresh the active flag. All writes happen in one
// transaction.
func (s *PksService) Activate(ctx context.Context, id uuid.UUID) (*domain.PksDTO, error) {
	pks, err := s.pksRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPksNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	if pks.Status != domain.PksStatusApproved {
		return nil, ErrPksNotActivatable
	}

	lead, err := s.leadRepo.GetByID(ctx, pks.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	now := time.Now()
	actor := auth.Actor(ctx)

	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, lead.NeedCategory, lead.Nomor, now)
	if err != nil {
		return nil, err
	}

	// The customer number is only drawn when this lead has no customer yet
	var customerNomor string
	if lead.CustomerID == nil {
		customerNomor, err = s.numberSvc.GenerateCustomerNomor(ctx, lead.Nomor, now)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pks.IsAktif = true
		pks.Status = domain.PksStatusActive
		pks.UpdatedBy = actor
		if err := tx.Save(pks).Error; err != nil {
			return fmt.Errorf("failed to activate contract: %w", err)
		}

		if lead.CustomerID == nil {
			customer := &domain.Customer{
				Nomor:  customerNomor,
				LeadID: lead.ID,
				Name:   lead.CompanyName,
			}
			customer.CreatedBy = actor
			customer.UpdatedBy = actor
			if err := s.customerRepo.CreateTx(ctx, tx, customer); err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
			lead.CustomerID = &customer.ID
			lead.Status = domain.LeadStatusCustomer
		}

		// Recompute the flag instead of forcing it, a contract whose end
		// date already passed must not mark the customer active.
		var contracts []domain.Pks
		if err := tx.Where("lead_id = ?", lead.ID).Find(&contracts).Error; err != nil {
			return fmt.Errorf("failed to load contracts: %w", err)
		}
		lead.CustomerActive = computeActive(contracts, now)
		lead.UpdatedBy = actor
		if err := tx.Save(lead).Error; err != nil {
			return fmt.Errorf("failed to update lead: %w", err)
		}

		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityPksActivated,
			Title:        "PKS diaktifkan",
			Body:         fmt.Sprintf("PKS %s aktif untuk %s", pks.Nomor, lead.CompanyName),
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record activation activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract activated",
		zap.String("pks_nomor", pks.Nomor),
		zap.String("lead_nomor", lead.Nomor),
	)

	dto := mapper.ToPksDTO(pks)
	return &dto, nil
}
