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

func newQuotationService(db *gorm.DB) *service.QuotationService {
	leadRepo := repository.NewLeadRepository(db)
	seqRepo := repository.NewNumberSequenceRepository(db)
	numberSvc := service.NewNumberService(seqRepo, leadRepo, zap.NewNop())
	return service.NewQuotationService(
		db,
		repository.NewQuotationRepository(db),
		leadRepo,
		repository.NewPksRepository(db),
		repository.NewSiteRepository(db),
		repository.NewActivityRepository(db),
		numberSvc,
		zap.NewNop(),
	)
}

func TestQuotationCreate_NumberAndSites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newQuotationService(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "PT Penawaran Satu")
	site := testutil.CreateTestSite(t, db, "Gedung A")

	dto, err := svc.Create(ctx, &domain.CreateQuotationRequest{
		LeadID: lead.ID,
		Title:  "Internet dedicated 100 Mbps",
		Amount: 15000000,
		Sites: []domain.QuotationSiteInput{
			{SiteID: site.ID, MonthlyFee: 12000000, InstallationFee: 3000000},
		},
	})
	require.NoError(t, err)

	now := time.Now()
	wantPrefix := fmt.Sprintf("QUO/%s-%02d%04d-", lead.Nomor, int(now.Month()), now.Year())
	assert.Contains(t, dto.Nomor, wantPrefix)
	assert.Equal(t, domain.QuotationStatusDraft, dto.Status)
	require.Len(t, dto.Sites, 1)
	assert.Equal(t, site.ID, dto.Sites[0].SiteID)
	assert.Equal(t, float64(12000000), dto.Sites[0].MonthlyFee)
}

func TestQuotationCreate_RejectsUnknownSite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuotationService(db)
	lead := testutil.CreateTestLead(t, db, "PT Penawaran Situs")

	_, err := svc.Create(context.Background(), &domain.CreateQuotationRequest{
		LeadID: lead.ID,
		Sites: []domain.QuotationSiteInput{
			{SiteID: uuid.New(), MonthlyFee: 1000000},
		},
	})
	assert.ErrorIs(t, err, service.ErrSiteNotFound)
}

func TestQuotationCreate_RejectsUnknownLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuotationService(db)

	_, err := svc.Create(context.Background(), &domain.CreateQuotationRequest{
		LeadID: uuid.New(),
	})
	assert.ErrorIs(t, err, service.ErrLeadNotFound)
}

func TestQuotationApprove_CreatesDraftContract(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newQuotationService(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "PT Penawaran Disetujui")
	site := testutil.CreateTestSite(t, db, "Gedung B")

	quotation, err := svc.Create(ctx, &domain.CreateQuotationRequest{
		LeadID: lead.ID,
		Amount: 5000000,
		Sites: []domain.QuotationSiteInput{
			{SiteID: site.ID, MonthlyFee: 5000000},
		},
	})
	require.NoError(t, err)

	pksDTO, err := svc.Approve(ctx, quotation.ID, &domain.ApproveQuotationRequest{
		EntityCode:   "PTTI",
		KontrakAwal:  time.Now(),
		KontrakAkhir: time.Now().AddDate(2, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PksStatusDraft, pksDTO.Status)
	assert.Equal(t, "PTTI", pksDTO.EntityCode)
	require.NotNil(t, pksDTO.QuotationID)
	assert.Equal(t, quotation.ID, *pksDTO.QuotationID)
	assert.Contains(t, pksDTO.Nomor, "PKS/PTTI/"+lead.Nomor)

	// the contract inherits the quotation's sites
	var pksSites []domain.PksSite
	require.NoError(t, db.Where("pks_id = ?", pksDTO.ID).Find(&pksSites).Error)
	require.Len(t, pksSites, 1)
	assert.Equal(t, site.ID, pksSites[0].SiteID)

	// the quotation itself is now approved
	got, err := svc.GetByID(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusApproved, got.Status)
}

func TestQuotationApprove_RejectsAlreadyApproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newQuotationService(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "PT Penawaran Ganda")
	quotation, err := svc.Create(ctx, &domain.CreateQuotationRequest{LeadID: lead.ID})
	require.NoError(t, err)

	req := &domain.ApproveQuotationRequest{
		EntityCode:   "PTTI",
		KontrakAwal:  time.Now(),
		KontrakAkhir: time.Now().AddDate(1, 0, 0),
	}

	_, err = svc.Approve(ctx, quotation.ID, req)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, quotation.ID, req)
	assert.ErrorIs(t, err, service.ErrQuotationNotApprovable)
}

func TestQuotationApprove_RejectsInvertedDates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newQuotationService(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "PT Penawaran Tanggal")
	quotation, err := svc.Create(ctx, &domain.CreateQuotationRequest{LeadID: lead.ID})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, quotation.ID, &domain.ApproveQuotationRequest{
		EntityCode:   "PTTI",
		KontrakAwal:  time.Now().AddDate(1, 0, 0),
		KontrakAkhir: time.Now(),
	})
	assert.ErrorIs(t, err, service.ErrContractDates)
}
