package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type PksHandler struct {
	pksService       *service.PksService
	lifecycleService *service.LifecycleService
	logger           *zap.Logger
}

func NewPksHandler(pksService *service.PksService, lifecycleService *service.LifecycleService, logger *zap.Logger) *PksHandler {
	return &PksHandler{
		pksService:       pksService,
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// List returns a page of contracts
func (h *PksHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")
	status := domain.PksStatus(r.URL.Query().Get("status"))

	result, err := h.pksService.List(r.Context(), page, pageSize, search, leadIDFilter(r), status)
	if err != nil {
		h.logger.Error("failed to list contracts", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contracts retrieved", result)
}

// Expiring returns active contracts ending within ?days (default 90)
func (h *PksHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 90
	}

	contracts, err := h.pksService.ListExpiring(r.Context(), days)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Expiring contracts retrieved", contracts)
}

// Get returns one contract by id
func (h *PksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	pks, err := h.pksService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contract retrieved", pks)
}

// Create registers a contract directly
func (h *PksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePksRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	pks, err := h.pksService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Contract created", pks)
}

// Update edits a contract
func (h *PksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	var req domain.UpdatePksRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	pks, err := h.pksService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contract updated", pks)
}

// Delete soft-deletes a contract
func (h *PksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	if err := h.pksService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contract deleted", nil)
}

// Approve advances a contract one approval level
func (h *PksHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	pks, err := h.pksService.Approve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contract approved", pks)
}

// Reject ends a contract's approval chain
func (h *PksHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	pks, err := h.pksService.Reject(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contract rejected", pks)
}

// Activate turns an approved contract on, converting the lead on first use
func (h *PksHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contract id")
		return
	}

	pks, err := h.pksService.Activate(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Contract activated", pks)
}

// Resync recomputes the active flag for every converted lead
func (h *PksHandler) Resync(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycleService.SyncAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Lifecycle resync finished", result)
}
