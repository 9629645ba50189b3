package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
)

// ParseTenantID extracts and validates the tenant ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: tid
func ParseTenantID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "tid", "invalid_tenant_id", "Invalid tenant ID format", logger)
}

// ParsePRDID extracts and validates the PRD ID from the request path.
// Expects path parameter: pid
func ParsePRDID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "pid", "invalid_prd_id", "Invalid PRD ID format", logger)
}

// ParseItemID extracts and validates the item ID from the request path.
// Expects path parameter: iid
func ParseItemID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "iid", "invalid_item_id", "Invalid item ID format", logger)
}

// ParseJobID extracts and validates the parse-job ID from the request path.
// Expects path parameter: jid
func ParseJobID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "jid", "invalid_job_id", "Invalid job ID format", logger)
}

// ParseItemType extracts and validates the item type from the request path.
// Expects path parameter: type
func ParseItemType(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (itemtype.Type, bool) {
	t, err := itemtype.Parse(r.PathValue("type"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_item_type", err.Error()); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return t, true
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue(pathParam)
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
