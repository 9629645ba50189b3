package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/auth"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/services"
)

// ItemHandler handles item CRUD and lifecycle transition endpoints.
type ItemHandler struct {
	itemService      services.ItemService
	lifecycleService services.LifecycleService
	logger           *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService services.ItemService, lifecycleService services.LifecycleService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService:      itemService,
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// RegisterRoutes registers the item handler's routes on the given mux.
func (h *ItemHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	guard := func(fn http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireAuthWithPathValidation("tid")(tenantMiddleware(fn))
	}

	mux.HandleFunc("GET /api/tenants/{tid}/prds/{pid}/items/{type}", guard(h.ListSection))
	mux.HandleFunc("POST /api/tenants/{tid}/prds/{pid}/items/{type}", guard(h.AddManual))
	mux.HandleFunc("POST /api/tenants/{tid}/prds/{pid}/items/{type}/transitions", guard(h.ApplyTransition))

	mux.HandleFunc("POST /api/tenants/{tid}/items/{iid}/accept-description", guard(h.AcceptDescription))
	mux.HandleFunc("PATCH /api/tenants/{tid}/items/{iid}/name", guard(h.Rename))
	mux.HandleFunc("PATCH /api/tenants/{tid}/items/{iid}/description", guard(h.ModifyDescription))
	mux.HandleFunc("DELETE /api/tenants/{tid}/items/{iid}", guard(h.Delete))
}

// ListSection handles GET /api/tenants/{tid}/prds/{pid}/items/{type}
func (h *ItemHandler) ListSection(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.itemService.ListSection(r.Context(), tenantID, prdID, itemType)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"items": items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type addItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddManual handles POST /api/tenants/{tid}/prds/{pid}/items/{type}
func (h *ItemHandler) AddManual(w http.ResponseWriter, r *http.Request) {
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

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	item, err := h.itemService.AddManual(r.Context(), tenantID, prdID, itemType, req.Name, req.Description)
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, item); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type transitionRequest struct {
	Action      string      `json:"action"`
	ItemID      uuid.UUID   `json:"item_id,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	SelectedIDs []uuid.UUID `json:"selected_ids,omitempty"`
}

// ApplyTransition handles POST /api/tenants/{tid}/prds/{pid}/items/{type}/transitions
func (h *ItemHandler) ApplyTransition(w http.ResponseWriter, r *http.Request) {
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

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	err := h.lifecycleService.ApplyTransition(r.Context(), tenantID, services.TransitionRequest{
		Action:      req.Action,
		ItemType:    itemType,
		ItemID:      req.ItemID,
		Priority:    req.Priority,
		PRDID:       prdID,
		SelectedIDs: req.SelectedIDs,
	})
	if err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "applied"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AcceptDescription handles POST /api/tenants/{tid}/items/{iid}/accept-description
func (h *ItemHandler) AcceptDescription(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.itemService.AcceptDescription(r.Context(), tenantID, itemID); err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename handles PATCH /api/tenants/{tid}/items/{iid}/name
func (h *ItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.itemService.Rename(r.Context(), tenantID, itemID, req.Name); err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "renamed"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type descriptionRequest struct {
	Description string `json:"description"`
}

// ModifyDescription handles PATCH /api/tenants/{tid}/items/{iid}/description
func (h *ItemHandler) ModifyDescription(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}

	var req descriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.itemService.ModifySuggestion(r.Context(), tenantID, itemID, req.Description); err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/tenants/{tid}/items/{iid}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := ParseTenantID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.itemService.Delete(r.Context(), tenantID, itemID); err != nil {
		RespondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
