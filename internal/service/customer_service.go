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

// CustomerService is a read-mostly view over customers. Customers are never
// created through this service; they come into existence when a lead's first
// contract is activated.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	leadRepo     *repository.LeadRepository
	pksRepo      *repository.PksRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	leadRepo *repository.LeadRepository,
	pksRepo *repository.PksRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		leadRepo:     leadRepo,
		pksRepo:      pksRepo,
		logger:       logger,
	}
}

// GetByID returns a single customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	customers, total, err := s.customerRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return &domain.PaginatedResponse{
		Data:       mapper.ToCustomerDTOs(customers),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// GetContracts returns the contracts behind a customer, with their derived
// remaining-time and expiry fields.
func (s *CustomerService) GetContracts(ctx context.Context, id uuid.UUID) ([]domain.PksDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	contracts, err := s.pksRepo.ListByLead(ctx, customer.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer contracts: %w", err)
	}
	return mapper.ToPksDTOs(contracts), nil
}
