package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"go.uber.org/zap"
)

// NumberService generates the document numbers used across the pipeline.
// All numbers follow PREFIX/[ENTITY/]SCOPE-MMYYYY-NNNNN where the five-digit
// sequence restarts every calendar month per prefix and scope. Sequences are
// drawn under a row lock, so two concurrent requests can never get the same
// number.
type NumberService struct {
	seqRepo  *repository.NumberSequenceRepository
	leadRepo *repository.LeadRepository
	logger   *zap.Logger
}

// NewNumberService creates a new NumberService
func NewNumberService(seqRepo *repository.NumberSequenceRepository, leadRepo *repository.LeadRepository, logger *zap.Logger) *NumberService {
	return &NumberService{
		seqRepo:  seqRepo,
		leadRepo: leadRepo,
		logger:   logger,
	}
}

// NextLeadNomor produces the code for the next lead by incrementing the
// highest code issued so far. The very first lead gets AAAAA.
func (s *NumberService) NextLeadNomor(ctx context.Context) (string, error) {
	latest, err := s.leadRepo.GetLatestNomor(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get latest lead code: %w", err)
	}
	return domain.NextLeadNomor(latest), nil
}

// GenerateQuotationNomor produces a quotation number scoped to a lead
func (s *NumberService) GenerateQuotationNomor(ctx context.Context, leadNomor string, at time.Time) (string, error) {
	seq, err := s.seqRepo.GetNextNumber(ctx, domain.PrefixQuotation, leadNomor, int(at.Month()), at.Year())
	if err != nil {
		return "", fmt.Errorf("failed to draw quotation sequence: %w", err)
	}
	return domain.FormatNomor(domain.PrefixQuotation, leadNomor, at, seq), nil
}

// GeneratePksNomor produces a contract number carrying the legal entity code
func (s *NumberService) GeneratePksNomor(ctx context.Context, entityCode, leadNomor string, at time.Time) (string, error) {
	scope := scopeWithEntity(entityCode, leadNomor)
	seq, err := s.seqRepo.GetNextNumber(ctx, domain.PrefixPks, scope, int(at.Month()), at.Year())
	if err != nil {
		return "", fmt.Errorf("failed to draw contract sequence: %w", err)
	}
	return domain.FormatNomorWithEntity(domain.PrefixPks, entityCode, leadNomor, at, seq), nil
}

// GenerateSpkNomor produces a work order number carrying the legal entity code
func (s *NumberService) GenerateSpkNomor(ctx context.Context, entityCode, leadNomor string, at time.Time) (string, error) {
	scope := scopeWithEntity(entityCode, leadNomor)
	seq, err := s.seqRepo.GetNextNumber(ctx, domain.PrefixSpk, scope, int(at.Month()), at.Year())
	if err != nil {
		return "", fmt.Errorf("failed to draw work order sequence: %w", err)
	}
	return domain.FormatNomorWithEntity(domain.PrefixSpk, entityCode, leadNomor, at, seq), nil
}

// GenerateCustomerNomor produces a customer number scoped to the originating lead
func (s *NumberService) GenerateCustomerNomor(ctx context.Context, leadNomor string, at time.Time) (string, error) {
	seq, err := s.seqRepo.GetNextNumber(ctx, domain.PrefixCustomer, leadNomor, int(at.Month()), at.Year())
	if err != nil {
		return "", fmt.Errorf("failed to draw customer sequence: %w", err)
	}
	return domain.FormatNomor(domain.PrefixCustomer, leadNomor, at, seq), nil
}

// GenerateActivityNomor produces an activity number whose prefix follows the
// lead's need category (IN, DC, MS, CL).
func (s *NumberService) GenerateActivityNomor(ctx context.Context, need domain.NeedCategory, leadNomor string, at time.Time) (string, error) {
	prefix := domain.ActivityPrefix(need)
	seq, err := s.seqRepo.GetNextNumber(ctx, prefix, leadNomor, int(at.Month()), at.Year())
	if err != nil {
		return "", fmt.Errorf("failed to draw activity sequence: %w", err)
	}
	return domain.FormatNomor(prefix, leadNomor, at, seq), nil
}

// scopeWithEntity keys the sequence by entity and lead together, so the same
// lead contracting under two entities counts separately.
func scopeWithEntity(entityCode, leadNomor string) string {
	if entityCode == "" {
		entityCode = domain.PlaceholderCode
	}
	return entityCode + "/" + leadNomor
}
