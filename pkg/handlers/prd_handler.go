package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// PRDHandler handles PRD document endpoints.
type PRDHandler struct {
	prdService services.PRDService
	logger     *zap.Logger
}

// NewPRDHandler creates a new PRDHandler.
func NewPRDHandler(prdService services.PRDService, logger *zap.Logger) *PRDHandler {
	return &PRDHandler{prdService: prdService, logger: logger}
}

// RegisterRoutes registers the PRD handler's routes on the given mux.
func (h *PRDHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	guard := func(fn http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireAuthWithPathValidation("tid")(tenantMiddleware(fn))
	}

	mux.HandleFunc("POST /api/tenants/{tid}/prds", guard(h.Create))
	mux.HandleFunc("GET /api/tenants/{tid}/prds", guard(h.List))
	mux.HandleFunc("GET /api/tenants/{tid}/prds/{pid}", guard(h.Get))
	mux.HandleFunc("PUT /api/tenants/{tid}/prds/{pid}", guard(h.Update))
	mux.HandleFunc("DELETE /api/tenants/{tid}/prds/{pid}", guard(h.Delete))
}

type prdRequest struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

// Create handles POST /api/tenants/{tid}/prds
func (h *PRDHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}

	var req prdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	prd, err := h.prdService.Create(r.Context(), tenantID, req.Name, req.Overview)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, prd); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/tenants/{tid}/prds
func (h *PRDHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}

	prds, err := h.prdService.List(r.Context(), tenantID)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"prds": prds}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/tenants/{tid}/prds/{pid}
func (h *PRDHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	prdID, ok := ParsePRDID(w, r, h.logger)
	if !ok {
		return
	}

	prd, err := h.prdService.Get(r.Context(), tenantID, prdID)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, prd); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/tenants/{tid}/prds/{pid}
func (h *PRDHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	prdID, ok := ParsePRDID(w, r, h.logger)
	if !ok {
		return
	}

	var req prdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	prd, err := h.prdService.Update(r.Context(), tenantID, prdID, req.Name, req.Overview)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, prd); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/tenants/{tid}/prds/{pid}
func (h *PRDHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	prdID, ok := ParsePRDID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.prdService.Delete(r.Context(), tenantID, prdID); err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
