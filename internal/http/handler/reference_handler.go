package handler

import (
	"net/http"

	"github.com/nusatech-dev/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type ReferenceHandler struct {
	referenceService *service.ReferenceService
	logger           *zap.Logger
}

func NewReferenceHandler(referenceService *service.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, logger: logger}
}

// Entities lists the legal entities contracts can be issued under
func (h *ReferenceHandler) Entities(w http.ResponseWriter, r *http.Request) {
	entities, err := h.referenceService.ListEntities(r.Context())
	if err != nil {
		h.logger.Error("failed to list entities", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Entities retrieved", entities)
}

// SalesTeams lists the active sales teams from the HR system
func (h *ReferenceHandler) SalesTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.referenceService.ListSalesTeams(r.Context())
	if err != nil {
		h.logger.Error("failed to list sales teams", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Sales teams retrieved", teams)
}
