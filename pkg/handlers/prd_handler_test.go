package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

func newPRDRequest(t *testing.T, method string, tenantID uuid.UUID, prdID string, body string) *http.Request {
	t.Helper()

	url := "/api/tenants/" + tenantID.String() + "/prds"
	if prdID != "" {
		url += "/" + prdID
	}

	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, url, nil)
	}
	r.SetPathValue("tid", tenantID.String())
	if prdID != "" {
		r.SetPathValue("pid", prdID)
	}
	return r
}

func TestPRDHandler_Create(t *testing.T) {
	svc := &mockPRDService{}
	h := NewPRDHandler(svc, zap.NewNop())

	tenantID := uuid.New()
	w := httptest.NewRecorder()
	h.Create(w, newPRDRequest(t, http.MethodPost, tenantID, "", `{"name":"Checkout Redesign","overview":"One-page checkout"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Checkout Redesign", svc.lastName)

	var got models.PRD
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, "One-page checkout", got.Overview)
}

func TestPRDHandler_CreateValidationError(t *testing.T) {
	svc := &mockPRDService{err: apperrors.NewValidationError("name", "name is required")}
	h := NewPRDHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.Create(w, newPRDRequest(t, http.MethodPost, uuid.New(), "", `{"name":""}`))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "validation_error", resp.Error)
	assert.Equal(t, "name is required", resp.Fields["name"])
}

func TestPRDHandler_CreateBadJSON(t *testing.T) {
	h := NewPRDHandler(&mockPRDService{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.Create(w, newPRDRequest(t, http.MethodPost, uuid.New(), "", `{not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPRDHandler_Get(t *testing.T) {
	tenantID, prdID := uuid.New(), uuid.New()
	svc := &mockPRDService{prd: &models.PRD{ID: prdID, TenantID: tenantID, Name: "Checkout Redesign"}}
	h := NewPRDHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.Get(w, newPRDRequest(t, http.MethodGet, tenantID, prdID.String(), ""))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.PRD
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, prdID, got.ID)
}

func TestPRDHandler_GetNotFound(t *testing.T) {
	svc := &mockPRDService{err: apperrors.ErrNotFound}
	h := NewPRDHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.Get(w, newPRDRequest(t, http.MethodGet, uuid.New(), uuid.NewString(), ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPRDHandler_GetInvalidID(t *testing.T) {
	h := NewPRDHandler(&mockPRDService{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.Get(w, newPRDRequest(t, http.MethodGet, uuid.New(), "not-a-uuid", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPRDHandler_List(t *testing.T) {
	tenantID := uuid.New()
	svc := &mockPRDService{prds: []*models.PRD{
		{ID: uuid.New(), TenantID: tenantID, Name: "A"},
		{ID: uuid.New(), TenantID: tenantID, Name: "B"},
	}}
	h := NewPRDHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.List(w, newPRDRequest(t, http.MethodGet, tenantID, "", ""))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		PRDs []*models.PRD `json:"prds"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.PRDs, 2)
}

func TestPRDHandler_Update(t *testing.T) {
	tenantID, prdID := uuid.New(), uuid.New()
	svc := &mockPRDService{}
	h := NewPRDHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.Update(w, newPRDRequest(t, http.MethodPut, tenantID, prdID.String(), `{"name":"Renamed","overview":"v2"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", svc.lastName)
}

func TestPRDHandler_Delete(t *testing.T) {
	tenantID, prdID := uuid.New(), uuid.New()
	svc := &mockPRDService{}
	h := NewPRDHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.Delete(w, newPRDRequest(t, http.MethodDelete, tenantID, prdID.String(), ""))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, svc.deleteIDs, 1)
	assert.Equal(t, prdID, svc.deleteIDs[0])
}
