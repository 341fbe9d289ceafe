package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/nusatech-dev/backoffice-api/internal/service"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondSuccess wraps data in the standard response envelope
func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, domain.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError sends a failure envelope with the given status
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.Response{
		Success: false,
		Message: message,
	})
}

// respondInternalError sends a 500 envelope. The raw error text is included
// in the message, which the operations team relies on for triage.
func respondInternalError(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusInternalServerError, domain.Response{
		Success: false,
		Message: err.Error(),
	})
}

// respondValidationError sends a 422 envelope with per-field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fieldErrors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldErrors[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}
	respondJSON(w, http.StatusUnprocessableEntity, domain.Response{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors,
	})
}

// respondServiceError maps the well-known service errors onto HTTP statuses.
// Anything unmapped is treated as an internal error.
func respondServiceError(w http.ResponseWriter, err error) {
	var dup *service.DuplicateNameError
	if errors.As(err, &dup) {
		respondJSON(w, http.StatusConflict, domain.Response{
			Success: false,
			Message: dup.Error(),
			Errors: map[string]string{
				"companyName": fmt.Sprintf("terlalu mirip dengan %q (%.1f%%)", dup.Match, dup.Percent),
			},
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrLeadNotFound),
		errors.Is(err, service.ErrQuotationNotFound),
		errors.Is(err, service.ErrPksNotFound),
		errors.Is(err, service.ErrSpkNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrSiteNotFound),
		errors.Is(err, service.ErrEntityNotFound),
		errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidNeedCategory),
		errors.Is(err, service.ErrContractDates),
		errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrQuotationNotApprovable),
		errors.Is(err, service.ErrPksNotApprovable),
		errors.Is(err, service.ErrPksNotActivatable):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondInternalError(w, err)
	}
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must have at least %s items", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return "Invalid value"
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// decodeAndValidate decodes the request body and runs struct validation
func decodeAndValidate(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate.Struct(target)
}

// parseID extracts a UUID path parameter
func parseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// pagination reads page and pageSize query parameters with sane bounds
func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}
