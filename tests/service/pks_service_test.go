package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"github.com/nusatech-dev/backoffice-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPksService(db *gorm.DB) *service.PksService {
	leadRepo := repository.NewLeadRepository(db)
	seqRepo := repository.NewNumberSequenceRepository(db)
	numberSvc := service.NewNumberService(seqRepo, leadRepo, zap.NewNop())
	lifecycleSvc := service.NewLifecycleService(leadRepo, zap.NewNop())
	return service.NewPksService(
		db,
		repository.NewPksRepository(db),
		leadRepo,
		repository.NewCustomerRepository(db),
		repository.NewEntityRepository(db),
		repository.NewSiteRepository(db),
		repository.NewActivityRepository(db),
		numberSvc,
		lifecycleSvc,
		zap.NewNop(),
	)
}

func ensureEntity(t *testing.T, db *gorm.DB, code string) {
	require.NoError(t, db.Exec(`
		INSERT INTO entities (id, name, is_active, created_at, updated_at)
		VALUES (?, ?, TRUE, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`, code, "Entity "+code).Error)
}

func contractRequest(leadID uuid.UUID, entityCode string) *domain.CreatePksRequest {
	return &domain.CreatePksRequest{
		LeadID:       leadID,
		EntityCode:   entityCode,
		KontrakAwal:  time.Now().AddDate(0, 0, -1),
		KontrakAkhir: time.Now().AddDate(1, 0, 0),
	}
}

func TestPksCreate_NumberCarriesEntityAndLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Kontrak Satu")

	dto, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)

	now := time.Now()
	wantPrefix := fmt.Sprintf("PKS/PTTI/%s-%02d%04d-", lead.Nomor, int(now.Month()), now.Year())
	assert.Contains(t, dto.Nomor, wantPrefix)
	assert.Equal(t, domain.PksStatusDraft, dto.Status)
	assert.Equal(t, 0, dto.ApprovalLevel)
	assert.False(t, dto.IsAktif)
}

func TestPksCreate_RejectsUnknownEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPksService(db)
	lead := testutil.CreateTestLead(t, db, "PT Kontrak Entitas")

	_, err := svc.Create(context.Background(), contractRequest(lead.ID, "XXXX"))
	assert.ErrorIs(t, err, service.ErrEntityNotFound)
}

func TestPksCreate_RejectsInvertedDates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPksService(db)
	ensureEntity(t, db, "PTTI")
	lead := testutil.CreateTestLead(t, db, "PT Tanggal Terbalik")

	req := contractRequest(lead.ID, "PTTI")
	req.KontrakAwal, req.KontrakAkhir = req.KontrakAkhir, req.KontrakAwal

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrContractDates)
}

func TestPksApprove_WalksTheChain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Rantai Persetujuan")
	dto, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)

	for level := 1; level < domain.MaxApprovalLevel; level++ {
		dto, err = svc.Approve(ctx, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, level, dto.ApprovalLevel)
		assert.Equal(t, domain.PksStatusInApproval, dto.Status)
	}

	// final level flips the status to approved
	dto, err = svc.Approve(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxApprovalLevel, dto.ApprovalLevel)
	assert.Equal(t, domain.PksStatusApproved, dto.Status)

	// an approved contract cannot be approved again
	_, err = svc.Approve(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrPksNotApprovable)
}

func TestPksReject_EndsTheChain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Ditolak")
	dto, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)

	dto, err = svc.Reject(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PksStatusRejected, dto.Status)

	_, err = svc.Approve(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrPksNotApprovable)
}

func approveFully(t *testing.T, svc *service.PksService, ctx context.Context, id uuid.UUID) *domain.PksDTO {
	var dto *domain.PksDTO
	var err error
	for i := 0; i < domain.MaxApprovalLevel; i++ {
		dto, err = svc.Approve(ctx, id)
		require.NoError(t, err)
	}
	return dto
}

func TestPksActivate_ConvertsLeadOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	leadRepo := repository.NewLeadRepository(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Jadi Pelanggan")

	first, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)
	approveFully(t, svc, ctx, first.ID)

	activated, err := svc.Activate(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsAktif)
	assert.Equal(t, domain.PksStatusActive, activated.Status)

	got, err := leadRepo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, domain.LeadStatusCustomer, got.Status)
	assert.True(t, got.CustomerActive)

	firstCustomerID := *got.CustomerID

	// activating a second contract reuses the existing customer
	second, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)
	approveFully(t, svc, ctx, second.ID)

	_, err = svc.Activate(ctx, second.ID)
	require.NoError(t, err)

	got, err = leadRepo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, firstCustomerID, *got.CustomerID)

	var customerCount int64
	require.NoError(t, db.Model(&domain.Customer{}).Where("lead_id = ?", lead.ID).Count(&customerCount).Error)
	assert.Equal(t, int64(1), customerCount, "exactly one customer per lead")
}

func TestPksActivate_ExpiredContractLeavesCustomerInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	leadRepo := repository.NewLeadRepository(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Kontrak Kedaluwarsa")

	req := contractRequest(lead.ID, "PTTI")
	req.KontrakAwal = time.Now().AddDate(-2, 0, 0)
	req.KontrakAkhir = time.Now().AddDate(0, 0, -30)
	dto, err := svc.Create(ctx, req)
	require.NoError(t, err)
	approveFully(t, svc, ctx, dto.ID)

	activated, err := svc.Activate(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsAktif)

	// The lead still converts to a customer, but an already expired
	// contract cannot make it active.
	got, err := leadRepo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, domain.LeadStatusCustomer, got.Status)
	assert.False(t, got.CustomerActive)
}

func TestPksActivate_RequiresApproval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Belum Disetujui")
	dto, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)

	_, err = svc.Activate(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrPksNotActivatable)
}

func TestPksDelete_ReflowsActiveFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newPksService(db)
	leadRepo := repository.NewLeadRepository(db)
	ctx := context.Background()
	ensureEntity(t, db, "PTTI")

	lead := testutil.CreateTestLead(t, db, "PT Kontrak Dicabut")
	dto, err := svc.Create(ctx, contractRequest(lead.ID, "PTTI"))
	require.NoError(t, err)
	approveFully(t, svc, ctx, dto.ID)
	_, err = svc.Activate(ctx, dto.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, dto.ID))

	got, err := leadRepo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.False(t, got.CustomerActive, "no remaining contract keeps the lead active")
}
