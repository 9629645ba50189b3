package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/export"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// ExportHandler handles ticket export endpoints.
type ExportHandler struct {
	exportService services.ExportService
	logger        *zap.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// RegisterRoutes registers the export handler's routes on the given mux.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("POST /api/tenants/{tid}/items/{iid}/export",
		authMiddleware.RequireAuthWithPathValidation("tid")(tenantMiddleware(h.ExportTicket)))
	mux.HandleFunc("GET /api/export/trackers", authMiddleware.RequireAuth(h.ListTrackers))
}

type exportRequest struct {
	TrackerType string            `json:"tracker_type"`
	Config      map[string]string `json:"config"`
}

// ExportTicket handles POST /api/tenants/{tid}/items/{iid}/export
func (h *ExportHandler) ExportTicket(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.exportService.ExportTicket(r.Context(), tenantID, services.ExportRequest{
		ItemID:      itemID,
		TrackerType: req.TrackerType,
		Config:      req.Config,
	})
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListTrackers handles GET /api/export/trackers
func (h *ExportHandler) ListTrackers(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, map[string]any{"trackers": export.RegisteredAdapters()}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
