package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
)

// TenantMiddleware is a function that wraps a handler with tenant context.
type TenantMiddleware func(http.HandlerFunc) http.HandlerFunc

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// ValidationErrorResponse writes a 400 carrying the per-field messages.
func ValidationErrorResponse(w http.ResponseWriter, verr *apperrors.ValidationError) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	return json.NewEncoder(w).Encode(map[string]any{
		"error":  "validation_error",
		"fields": verr.Fields,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// RespondServiceError maps a service-layer error to its HTTP shape. Not-found
// and tenant-mismatch are indistinguishable on the wire.
func RespondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *apperrors.ValidationError

	var writeErr error
	switch {
	case errors.As(err, &verr):
		writeErr = ValidationErrorResponse(w, verr)
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrNotPrioritizable):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "not_prioritizable", "Item type does not support priority")
	case errors.Is(err, apperrors.ErrNotSyncable):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "not_syncable", "Item type does not support relation sync")
	case errors.Is(err, apperrors.ErrNoSuggestions):
		writeErr = ErrorResponse(w, http.StatusBadGateway, "no_suggestions_produced", "The model produced no usable suggestions")
	case errors.Is(err, apperrors.ErrExportFailed):
		writeErr = ErrorResponse(w, http.StatusBadGateway, "export_failed", "The issue tracker rejected the export")
	case errors.Is(err, apperrors.ErrGenerationRunning):
		writeErr = ErrorResponse(w, http.StatusConflict, "generation_in_progress", "Suggestion generation is already running for this section")
	case errors.Is(err, apperrors.ErrConflict):
		writeErr = ErrorResponse(w, http.StatusConflict, "conflict", "The request conflicts with current state")
	default:
		logger.Error("request failed", zap.Error(err))
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}

	if writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
