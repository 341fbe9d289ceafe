package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/mapper"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityService exposes the read side of lead timelines. Entries are
// written by the other services as part of their transactions.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	leadRepo     *repository.LeadRepository
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo *repository.ActivityRepository, leadRepo *repository.LeadRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		leadRepo:     leadRepo,
		logger:       logger,
	}
}

// ListByLead returns a page of a lead's timeline, newest first
func (s *ActivityService) ListByLead(ctx context.Context, leadID uuid.UUID, page, pageSize int) (*domain.PaginatedResponse, error) {
	if _, err := s.leadRepo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	activities, total, err := s.activityRepo.ListByLead(ctx, leadID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return &domain.PaginatedResponse{
		Data:       mapper.ToActivityDTOs(activities),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
