package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/http/handler"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"github.com/nusatech-dev/backoffice-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPksRouter(db *gorm.DB) http.Handler {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	seqRepo := repository.NewNumberSequenceRepository(db)
	numberSvc := service.NewNumberService(seqRepo, leadRepo, logger)
	lifecycleSvc := service.NewLifecycleService(leadRepo, logger)
	pksService := service.NewPksService(
		db,
		repository.NewPksRepository(db),
		leadRepo,
		repository.NewCustomerRepository(db),
		repository.NewEntityRepository(db),
		repository.NewSiteRepository(db),
		repository.NewActivityRepository(db),
		numberSvc,
		lifecycleSvc,
		logger,
	)
	h := handler.NewPksHandler(pksService, lifecycleSvc, logger)

	r := chi.NewRouter()
	r.Get("/pks", h.List)
	r.Post("/pks", h.Create)
	r.Post("/pks/resync", h.Resync)
	r.Get("/pks/{id}", h.Get)
	r.Post("/pks/{id}/approve", h.Approve)
	r.Post("/pks/{id}/activate", h.Activate)
	return r
}

func seedEntity(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	require.NoError(t, db.Exec(`
		INSERT INTO entities (id, name, is_active, created_at, updated_at)
		VALUES (?, ?, TRUE, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`, code, "Entity "+code).Error)
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPksHandler_ApproveAndActivateFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPksRouter(db)
	seedEntity(t, db, "PTTI")
	lead := testutil.CreateTestLead(t, db, "PT Handler Kontrak Utama")

	rec := postJSON(t, router, "/pks", map[string]interface{}{
		"leadId":       lead.ID,
		"entityCode":   "PTTI",
		"kontrakAwal":  time.Now().AddDate(0, 0, -1).Format(time.RFC3339),
		"kontrakAkhir": time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeEnvelope(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	pksID := data["id"].(string)
	assert.Contains(t, data["nomor"], "PKS/PTTI/"+lead.Nomor)
	assert.Equal(t, "draft", data["status"])

	// Activation before approval is rejected.
	rec = postJSON(t, router, fmt.Sprintf("/pks/%s/activate", pksID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for i := 0; i < domain.MaxApprovalLevel; i++ {
		rec = postJSON(t, router, fmt.Sprintf("/pks/%s/approve", pksID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	resp = decodeEnvelope(t, rec)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "approved", data["status"])

	rec = postJSON(t, router, fmt.Sprintf("/pks/%s/activate", pksID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeEnvelope(t, rec)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, true, data["isAktif"])
}

func TestPksHandler_CreateUnknownEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPksRouter(db)
	lead := testutil.CreateTestLead(t, db, "PT Handler Entitas Hilang")

	rec := postJSON(t, router, "/pks", map[string]interface{}{
		"leadId":       lead.ID,
		"entityCode":   "XXNO",
		"kontrakAwal":  time.Now().Format(time.RFC3339),
		"kontrakAkhir": time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
}

func TestPksHandler_GetNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPksRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/pks/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPksHandler_Resync(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPksRouter(db)

	rec := postJSON(t, router, "/pks/resync", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	_, hasChecked := data["checked"]
	assert.True(t, hasChecked)
}
