package service

import (
	"context"
	"fmt"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/hris"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"go.uber.org/zap"
)

// ReferenceService serves the lookup data the front office forms need: the
// legal entities contracts are issued under and the sales teams from the HR
// system.
type ReferenceService struct {
	entityRepo *repository.EntityRepository
	hrisClient *hris.Client
	logger     *zap.Logger
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(entityRepo *repository.EntityRepository, hrisClient *hris.Client, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		entityRepo: entityRepo,
		hrisClient: hrisClient,
		logger:     logger,
	}
}

// ListEntities returns all legal entities
func (s *ReferenceService) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	entities, err := s.entityRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// ListSalesTeams returns the active sales teams from the HR system. Returns
// an empty list when the HRIS connection is disabled.
func (s *ReferenceService) ListSalesTeams(ctx context.Context) ([]hris.SalesTeam, error) {
	if !s.hrisClient.IsEnabled() {
		return []hris.SalesTeam{}, nil
	}
	teams, err := s.hrisClient.GetSalesTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales teams: %w", err)
	}
	if teams == nil {
		teams = []hris.SalesTeam{}
	}
	return teams, nil
}
