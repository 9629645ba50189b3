package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// JobHandler handles website-parse job endpoints.
type JobHandler struct {
	parseJobService services.ParseJobService
	logger          *zap.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(parseJobService services.ParseJobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{parseJobService: parseJobService, logger: logger}
}

// RegisterRoutes registers the job handler's routes on the given mux.
func (h *JobHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	guard := func(fn http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireAuthWithPathValidation("tid")(tenantMiddleware(fn))
	}

	mux.HandleFunc("POST /api/tenants/{tid}/prds/{pid}/parse-website", guard(h.Start))
	mux.HandleFunc("GET /api/tenants/{tid}/jobs/{jid}", guard(h.GetStatus))
}

type startParseRequest struct {
	URL string `json:"url"`
}

type jobStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Start handles POST /api/tenants/{tid}/prds/{pid}/parse-website
func (h *JobHandler) Start(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	prdID, ok := ParsePRDID(w, r, h.logger)
	if !ok {
		return
	}

	var req startParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	job, err := h.parseJobService.Start(r.Context(), tenantID, prdID, req.URL)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusAccepted, jobStatusResponse{
		ID:     job.ID.String(),
		Status: job.Status,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetStatus handles GET /api/tenants/{tid}/jobs/{jid}
func (h *JobHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	jobID, ok := ParseJobID(w, r, h.logger)
	if !ok {
		return
	}

	job, err := h.parseJobService.GetStatus(r.Context(), tenantID, jobID)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, jobStatusResponse{
		ID:     job.ID.String(),
		Status: job.Status,
		Error:  job.Error,
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
