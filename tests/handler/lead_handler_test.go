package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
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

func newLeadRouter(db *gorm.DB) http.Handler {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	seqRepo := repository.NewNumberSequenceRepository(db)
	numberSvc := service.NewNumberService(seqRepo, leadRepo, logger)
	leadService := service.NewLeadService(db, leadRepo, activityRepo, numberSvc, logger)
	activityService := service.NewActivityService(activityRepo, leadRepo, logger)
	h := handler.NewLeadHandler(leadService, activityService, logger)

	r := chi.NewRouter()
	r.Get("/leads", h.List)
	r.Post("/leads", h.Create)
	r.Get("/leads/{id}", h.Get)
	r.Put("/leads/{id}/status", h.UpdateStatus)
	r.Get("/leads/{id}/activities", h.Activities)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) domain.Response {
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLeadHandlerCreate_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	router := newLeadRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"companyName":  "PT Uji Handler",
		"city":         "Jakarta",
		"needCategory": "internet",
	})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Lead created", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "AAAAA", data["nomor"])
	assert.Equal(t, "new", data["status"])
}

func TestLeadHandlerCreate_ValidationError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newLeadRouter(db)

	// missing companyName, bad needCategory
	body := []byte(`{"needCategory":"hosting"}`)
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)

	fields, ok := resp.Errors.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "companyName")
	assert.Contains(t, fields, "needCategory")
}

func TestLeadHandlerCreate_DuplicateIsConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	router := newLeadRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"companyName":  "PT Ganda Nama Panjang Sekali",
		"needCategory": "internet",
	})
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)

	fields, ok := resp.Errors.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "companyName")
}

func TestLeadHandlerGet_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newLeadRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/leads/7b9f6dbe-27d8-4d07-a06a-3f0f7469d6f5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
}

func TestLeadHandlerGet_InvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newLeadRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/leads/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadHandlerUpdateStatus_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	router := newLeadRouter(db)

	lead := testutil.CreateTestLead(t, db, "PT Status Salah")

	body := []byte(`{"status":"imaginary"}`)
	req := httptest.NewRequest(http.MethodPut, "/leads/"+lead.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLeadHandlerList_Paginated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CleanupTestData(t, db)
	router := newLeadRouter(db)

	testutil.CreateTestLead(t, db, "PT Halaman Satu")
	testutil.CreateTestLead(t, db, "PT Halaman Dua")
	testutil.CreateTestLead(t, db, "PT Halaman Tiga")

	req := httptest.NewRequest(http.MethodGet, "/leads?page=1&pageSize=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["totalPages"])
	items, ok := data["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}
