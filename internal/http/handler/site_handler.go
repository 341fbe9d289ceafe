package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type SiteHandler struct {
	siteService *service.SiteService
	logger      *zap.Logger
}

func NewSiteHandler(siteService *service.SiteService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{siteService: siteService, logger: logger}
}

// List returns a page of sites
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	search := r.URL.Query().Get("search")

	result, err := h.siteService.List(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.Error("failed to list sites", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Sites retrieved", result)
}

// Get returns one site by id
func (h *SiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid site id")
		return
	}

	site, err := h.siteService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Site retrieved", site)
}

// Create registers a new site
func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSiteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	site, err := h.siteService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Site created", site)
}

// Update edits a site
func (h *SiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid site id")
		return
	}

	var req domain.CreateSiteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	site, err := h.siteService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Site updated", site)
}

// Delete soft-deletes a site
func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid site id")
		return
	}

	if err := h.siteService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Site deleted", nil)
}
