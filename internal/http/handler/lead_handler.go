package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	leadService     *service.LeadService
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewLeadHandler(leadService *service.LeadService, activityService *service.ActivityService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService:     leadService,
		activityService: activityService,
		logger:          logger,
	}
}

// List returns a page of leads filtered by search text and status
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")
	status := domain.LeadStatus(r.URL.Query().Get("status"))

	result, err := h.leadService.List(r.Context(), page, pageSize, search, status)
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Leads retrieved", result)
}

// Get returns one lead by id
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Lead retrieved", lead)
}

// Create registers a new lead
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warn("failed to create lead", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Lead created", lead)
}

// Update edits a lead
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req domain.UpdateLeadRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Lead updated", lead)
}

// Delete soft-deletes a lead
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	if err := h.leadService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Lead deleted", nil)
}

// UpdateStatus moves a lead to a new pipeline status
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req domain.UpdateLeadStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Lead status updated", lead)
}

// AssignTeam assigns a sales team to a lead
func (h *LeadHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	var req domain.AssignTeamRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.AssignTeam(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Sales team assigned", lead)
}

// BulkAssign assigns a sales team to many leads, skipping the ones it can't
func (h *LeadHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkAssignRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.leadService.BulkAssign(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Bulk assignment finished", result)
}

// Activities returns a page of the lead's timeline
func (h *LeadHandler) Activities(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	page, pageSize := pagination(r)
	result, err := h.activityService.ListByLead(r.Context(), id, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Activities retrieved", result)
}

// leadIDFilter reads an optional leadId query parameter
func leadIDFilter(r *http.Request) *uuid.UUID {
	raw := r.URL.Query().Get("leadId")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
