package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type SpkHandler struct {
	spkService *service.SpkService
	logger     *zap.Logger
}

func NewSpkHandler(spkService *service.SpkService, logger *zap.Logger) *SpkHandler {
	return &SpkHandler{spkService: spkService, logger: logger}
}

// List returns a page of work orders
func (h *SpkHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")
	status := domain.SpkStatus(r.URL.Query().Get("status"))

	result, err := h.spkService.List(r.Context(), page, pageSize, search, leadIDFilter(r), status)
	if err != nil {
		h.logger.Error("failed to list work orders", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Work orders retrieved", result)
}

// Get returns one work order by id
func (h *SpkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	spk, err := h.spkService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Work order retrieved", spk)
}

// Create issues a new work order
func (h *SpkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSpkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	spk, err := h.spkService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Work order created", spk)
}

// Update edits a work order
func (h *SpkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	var req domain.UpdateSpkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	spk, err := h.spkService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Work order updated", spk)
}

// Delete soft-deletes a work order
func (h *SpkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	if err := h.spkService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Work order deleted", nil)
}
