package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LifecycleService keeps each lead's customer_active flag in line with its
// contracts. A customer counts as active while at least one non-deleted
// contract is flagged active and has not ended; the end date itself still
// counts as active, date comparison ignores time of day.
type LifecycleService struct {
	leadRepo *repository.LeadRepository
	logger   *zap.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(leadRepo *repository.LeadRepository, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		leadRepo: leadRepo,
		logger:   logger,
	}
}

// SyncLead recomputes the active flag for one lead and persists it when it
// moved. Returns whether anything changed. Safe to call repeatedly.
func (s *LifecycleService) SyncLead(ctx context.Context, leadID uuid.UUID) (bool, error) {
	lead, err := s.leadRepo.GetByIDWithContracts(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrLeadNotFound
		}
		return false, fmt.Errorf("failed to get lead: %w", err)
	}

	active := computeActive(lead.Contracts, time.Now())
	if lead.CustomerActive == active {
		return false, nil
	}

	lead.CustomerActive = active
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return false, fmt.Errorf("failed to update lead active flag: %w", err)
	}

	s.logger.Info("lead lifecycle updated",
		zap.String("lead_id", leadID.String()),
		zap.String("nomor", lead.Nomor),
		zap.Bool("customer_active", active),
	)
	return true, nil
}

// SyncAll walks every lead that has been converted to a customer and
// recomputes its active flag. Used by the nightly job and the manual
// resync endpoint.
func (s *LifecycleService) SyncAll(ctx context.Context) (*domain.ResyncResult, error) {
	leads, err := s.leadRepo.ListWithCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list converted leads: %w", err)
	}

	result := &domain.ResyncResult{}
	now := time.Now()
	for i := range leads {
		lead := &leads[i]
		result.Checked++

		active := computeActive(lead.Contracts, now)
		if lead.CustomerActive == active {
			continue
		}

		lead.CustomerActive = active
		if err := s.leadRepo.Update(ctx, lead); err != nil {
			s.logger.Error("failed to update lead during resync",
				zap.String("lead_id", lead.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Updated++
	}

	s.logger.Info("lifecycle resync completed",
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

func computeActive(contracts []domain.Pks, now time.Time) bool {
	for i := range contracts {
		c := &contracts[i]
		if c.DeletedAt.Valid {
			continue
		}
		if c.IsAktif && domain.ContractIsCurrent(c.KontrakAkhir, now) {
			return true
		}
	}
	return false
}
