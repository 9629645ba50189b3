package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// SuggestionHandler handles AI suggestion generation endpoints.
type SuggestionHandler struct {
	suggestionService services.SuggestionService
	logger            *zap.Logger
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestionService services.SuggestionService, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService, logger: logger}
}

// RegisterRoutes registers the suggestion handler's routes on the given mux.
func (h *SuggestionHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("POST /api/tenants/{tid}/prds/{pid}/suggestions/{type}",
		authMiddleware.RequireAuthWithPathValidation("tid")(tenantMiddleware(h.Generate)))
}

type generateRequest struct {
	Regenerate bool `json:"regenerate"`
}

// Generate handles POST /api/tenants/{tid}/prds/{pid}/suggestions/{type}
// An empty body means regenerate=false: return cached suggestions when they
// exist, generate otherwise.
func (h *SuggestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	prdID, ok := ParsePRDID(w, r, h.logger)
	if !ok {
		return
	}
	itemType, ok := ParseItemType(w, r, h.logger)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	items, err := h.suggestionService.Generate(r.Context(), tenantID, prdID, itemType, req.Regenerate)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"items": items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
