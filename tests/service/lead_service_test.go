package service_test

import (
	"context"
	"testing"

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

func newLeadService(db *gorm.DB) *service.LeadService {
	leadRepo := repository.NewLeadRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	seqRepo := repository.NewNumberSequenceRepository(db)
	numberSvc := service.NewNumberService(seqRepo, leadRepo, zap.NewNop())
	return service.NewLeadService(db, leadRepo, activityRepo, numberSvc, zap.NewNop())
}

func TestLeadCreate_FirstCodeAndActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Pelanggan Pertama",
		City:         "Jakarta",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAAAA", dto.Nomor, "first lead gets the initial code")
	assert.Equal(t, domain.LeadStatusNew, dto.Status)

	// creation leaves a timeline entry
	var activities []domain.CustomerActivity
	require.NoError(t, db.Where("lead_id = ?", dto.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityLeadCreated, activities[0].ActivityType)
	assert.Contains(t, activities[0].Nomor, "IN/")
}

func TestLeadCreate_CodesAdvance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Kode Satu",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAAAA", first.Nomor)

	second, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Kode Dua",
		NeedCategory: domain.NeedDataCenter,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAAAB", second.Nomor)
}

func TestLeadCreate_CodeSurvivesDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Akan Dihapus",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))

	// the deleted lead keeps its code, the next lead advances past it
	second, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Pengganti",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAAAB", second.Nomor)
}

func TestLeadCreate_RejectsNearDuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Maju Bersama Sejahtera Abadi",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT MAJU BERSAMA SEJAHTERA ABADIS",
		NeedCategory: domain.NeedInternet,
	})
	require.Error(t, err)

	var dupErr *service.DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "PT Maju Bersama Sejahtera Abadi", dupErr.Match)
	assert.Greater(t, dupErr.Percent, 95.0)
}

func TestLeadCreate_AllowsDistinctNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Nusantara Teknologi",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Nusantara Logistik",
		NeedCategory: domain.NeedInternet,
	})
	assert.NoError(t, err)
}

func TestLeadCreate_InvalidNeedCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newLeadService(db)

	_, err := svc.Create(context.Background(), &domain.CreateLeadRequest{
		CompanyName:  "PT Kategori Salah",
		NeedCategory: domain.NeedCategory("hosting"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidNeedCategory)
}

func TestLeadUpdate_GuardDoesNotApply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Sinar Abadi Jaya Makmur",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)

	dto, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "CV Usaha Baru",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)

	// The duplicate guard only runs on creation, a rename is accepted even
	// when it lands next to an existing name.
	updated, err := svc.Update(ctx, dto.ID, &domain.UpdateLeadRequest{
		CompanyName:  "PT Sinar Abadi Jaya Makmurs",
		City:         "Surabaya",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)
	assert.Equal(t, "PT Sinar Abadi Jaya Makmurs", updated.CompanyName)
	assert.Equal(t, "Surabaya", updated.City)
}

func TestLeadUpdateStatus_RecordsTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Transisi",
		NeedCategory: domain.NeedManagedService,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, dto.ID, &domain.UpdateLeadStatusRequest{
		Status: domain.LeadStatusFollowUp,
		Notes:  "Telepon pertama dijadwalkan",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFollowUp, updated.Status)

	var activities []domain.CustomerActivity
	require.NoError(t, db.Where("lead_id = ? AND activity_type = ?", dto.ID, domain.ActivityStatusChanged).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Contains(t, activities[0].Body, "new")
	assert.Contains(t, activities[0].Body, "follow_up")
	assert.Contains(t, activities[0].Body, "Telepon pertama dijadwalkan")
	assert.Contains(t, activities[0].Nomor, "MS/")
}

func TestLeadUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateLeadRequest{
		CompanyName:  "PT Diam Saja",
		NeedCategory: domain.NeedInternet,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, dto.ID, &domain.UpdateLeadStatusRequest{Status: domain.LeadStatusNew})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.CustomerActivity{}).
		Where("lead_id = ? AND activity_type = ?", dto.ID, domain.ActivityStatusChanged).
		Count(&count).Error)
	assert.Equal(t, int64(0), count, "no transition, no timeline entry")
}

func TestBulkAssign_SkipsAndCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	svc := newLeadService(db)
	ctx := context.Background()

	leadA := testutil.CreateTestLead(t, db, "PT Massal Satu")
	leadB := testutil.CreateTestLead(t, db, "PT Massal Dua")
	missing := uuid.New()

	result, err := svc.BulkAssign(ctx, &domain.BulkAssignRequest{
		LeadIDs:       []uuid.UUID{leadA.ID, missing, leadB.ID},
		SalesTeamID:   "team-7",
		SalesTeamName: "Tim Penjualan 7",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Assigned)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{missing.String()}, result.Failures)

	var got domain.Lead
	require.NoError(t, db.First(&got, "id = ?", leadA.ID).Error)
	assert.Equal(t, "team-7", got.SalesTeamID)
	assert.Equal(t, "Tim Penjualan 7", got.SalesTeamName)
}
