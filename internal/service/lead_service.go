package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/auth"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/mapper"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"github.com/nusatech-dev/backoffice-api/internal/similarity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadService manages the lead pipeline: creation with the duplicate-name
// guard, status transitions, and sales team assignment.
type LeadService struct {
	db           *gorm.DB
	leadRepo     *repository.LeadRepository
	activityRepo *repository.ActivityRepository
	numberSvc    *NumberService
	logger       *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	db *gorm.DB,
	leadRepo *repository.LeadRepository,
	activityRepo *repository.ActivityRepository,
	numberSvc *NumberService,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		db:           db,
		leadRepo:     leadRepo,
		activityRepo: activityRepo,
		numberSvc:    numberSvc,
		logger:       logger,
	}
}

// Create registers a new lead. The company name is checked against every
// existing lead and rejected when it is more than 95 percent similar to one.
// The lead code and its first timeline entry are written in one transaction.
func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	if !req.NeedCategory.IsValid() {
		return nil, ErrInvalidNeedCategory
	}

	if err := s.guardDuplicateName(ctx, req.CompanyName); err != nil {
		return nil, err
	}

	nomor, err := s.numberSvc.NextLeadNomor(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	actor := auth.Actor(ctx)

	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, req.NeedCategory, nomor, now)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		Nomor:         nomor,
		CompanyName:   req.CompanyName,
		Address:       req.Address,
		City:          req.City,
		Phone:         req.Phone,
		Email:         req.Email,
		PicName:       req.PicName,
		NeedCategory:  req.NeedCategory,
		SalesTeamID:   req.SalesTeamID,
		SalesTeamName: req.SalesTeamName,
		Status:        domain.LeadStatusNew,
	}
	lead.CreatedBy = actor
	lead.UpdatedBy = actor

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.leadRepo.CreateTx(ctx, tx, lead); err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityLeadCreated,
			Title:        "Lead dibuat",
			Body:         fmt.Sprintf("Lead %s (%s) terdaftar", lead.Nomor, lead.CompanyName),
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record lead activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("nomor", lead.Nomor),
		zap.String("company", lead.CompanyName),
	)

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// GetByID returns a single lead
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// List returns a page of leads, optionally filtered by search text and status
func (s *LeadService) List(ctx context.Context, page, pageSize int, search string, status domain.LeadStatus) (*domain.PaginatedResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	leads, total, err := s.leadRepo.List(ctx, page, pageSize, search, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return &domain.PaginatedResponse{
		Data:       mapper.ToLeadDTOs(leads),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update edits a lead's company data. The duplicate-name guard applies to
// creation only, a rename is always accepted.
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	if !req.NeedCategory.IsValid() {
		return nil, ErrInvalidNeedCategory
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	lead.CompanyName = req.CompanyName
	lead.Address = req.Address
	lead.City = req.City
	lead.Phone = req.Phone
	lead.Email = req.Email
	lead.PicName = req.PicName
	lead.NeedCategory = req.NeedCategory
	lead.UpdatedBy = auth.Actor(ctx)

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// Delete soft-deletes a lead. Its code is never reissued.
func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.leadRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to get lead: %w", err)
	}
	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	s.logger.Info("lead deleted", zap.String("lead_id", id.String()))
	return nil
}

// UpdateStatus moves a lead to a new pipeline status and records the
// transition on its timeline.
func (s *LeadService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadStatusRequest) (*domain.LeadDTO, error) {
	if !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	oldStatus := lead.Status
	if oldStatus == req.Status {
		dto := mapper.ToLeadDTO(lead)
		return &dto, nil
	}

	now := time.Now()
	actor := auth.Actor(ctx)
	activityNomor, err := s.numberSvc.GenerateActivityNomor(ctx, lead.NeedCategory, lead.Nomor, now)
	if err != nil {
		return nil, err
	}

	lead.Status = req.Status
	lead.UpdatedBy = actor

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(lead).Error; err != nil {
			return fmt.Errorf("failed to update lead status: %w", err)
		}
		body := fmt.Sprintf("Status berubah dari %s ke %s", oldStatus, req.Status)
		if req.Notes != "" {
			body = body + ". " + req.Notes
		}
		activity := &domain.CustomerActivity{
			Nomor:        activityNomor,
			LeadID:       lead.ID,
			ActivityType: domain.ActivityStatusChanged,
			Title:        "Status lead diperbarui",
			Body:         body,
		}
		activity.CreatedBy = actor
		if err := s.activityRepo.CreateTx(ctx, tx, activity); err != nil {
			return fmt.Errorf("failed to record status activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// AssignTeam assigns a sales team to one lead
func (s *LeadService) AssignTeam(ctx context.Context, id uuid.UUID, req *domain.AssignTeamRequest) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	lead.SalesTeamID = req.SalesTeamID
	lead.SalesTeamName = req.SalesTeamName
	lead.UpdatedBy = auth.Actor(ctx)

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to assign team: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// BulkAssign assigns a sales team to many leads. Leads that cannot be
// assigned are skipped and counted, the batch never fails as a whole.
func (s *LeadService) BulkAssign(ctx context.Context, req *domain.BulkAssignRequest) (*domain.BulkAssignResult, error) {
	result := &domain.BulkAssignResult{}

	for _, id := range req.LeadIDs {
		lead, err := s.leadRepo.GetByID(ctx, id)
		if err != nil {
			result.Skipped++
			result.Failures = append(result.Failures, id.String())
			continue
		}

		lead.SalesTeamID = req.SalesTeamID
		lead.SalesTeamName = req.SalesTeamName
		lead.UpdatedBy = auth.Actor(ctx)

		if err := s.leadRepo.Update(ctx, lead); err != nil {
			s.logger.Warn("bulk assign skipped lead",
				zap.String("lead_id", id.String()),
				zap.Error(err),
			)
			result.Skipped++
			result.Failures = append(result.Failures, id.String())
			continue
		}
		result.Assigned++
	}

	s.logger.Info("bulk team assignment finished",
		zap.String("team_id", req.SalesTeamID),
		zap.Int("assigned", result.Assigned),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// guardDuplicateName rejects a company name that is over 95 percent similar
// to any existing lead's name. Comparison is case-insensitive. Only creation
// runs the guard.
func (s *LeadService) guardDuplicateName(ctx context.Context, name string) error {
	names, err := s.leadRepo.ListCompanyNames(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list company names: %w", err)
	}
	for _, existing := range names {
		if similarity.NearDuplicate(name, existing) {
			_, percent := similarity.Score(strings.ToLower(name), strings.ToLower(existing))
			return &DuplicateNameError{Name: name, Match: existing, Percent: percent}
		}
	}
	return nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
