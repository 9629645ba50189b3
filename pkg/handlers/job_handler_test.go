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

func TestJobHandler_Start(t *testing.T) {
	job := &models.ParseJob{ID: uuid.New(), Status: models.ParseJobStatusPending}
	h := NewJobHandler(&mockParseJobService{job: job}, zap.NewNop())

	tenantID, prdID := uuid.New(), uuid.New()
	r := httptest.NewRequest(http.MethodPost,
		"/api/tenants/"+tenantID.String()+"/prds/"+prdID.String()+"/parse-website",
		strings.NewReader(`{"url": "https://acme.example"}`))
	r.SetPathValue("tid", tenantID.String())
	r.SetPathValue("pid", prdID.String())

	w := httptest.NewRecorder()
	h.Start(w, r)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var body jobStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, job.ID.String(), body.ID)
	assert.Equal(t, models.ParseJobStatusPending, body.Status)
}

func TestJobHandler_Start_InvalidURL(t *testing.T) {
	h := NewJobHandler(&mockParseJobService{
		startErr: apperrors.NewValidationError("url", "a full http(s) URL is required"),
	}, zap.NewNop())

	tenantID, prdID := uuid.New(), uuid.New()
	r := httptest.NewRequest(http.MethodPost,
		"/api/tenants/"+tenantID.String()+"/prds/"+prdID.String()+"/parse-website",
		strings.NewReader(`{"url": "nope"}`))
	r.SetPathValue("tid", tenantID.String())
	r.SetPathValue("pid", prdID.String())

	w := httptest.NewRecorder()
	h.Start(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "url")
}

func TestJobHandler_GetStatus(t *testing.T) {
	job := &models.ParseJob{ID: uuid.New(), Status: models.ParseJobStatusFailed, Error: "fetch website: status 404"}
	h := NewJobHandler(&mockParseJobService{job: job}, zap.NewNop())

	tenantID := uuid.New()
	r := httptest.NewRequest(http.MethodGet,
		"/api/tenants/"+tenantID.String()+"/jobs/"+job.ID.String(), nil)
	r.SetPathValue("tid", tenantID.String())
	r.SetPathValue("jid", job.ID.String())

	w := httptest.NewRecorder()
	h.GetStatus(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body jobStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.ParseJobStatusFailed, body.Status)
	assert.Contains(t, body.Error, "404")
}

func TestJobHandler_GetStatus_NotFound(t *testing.T) {
	h := NewJobHandler(&mockParseJobService{getErr: apperrors.ErrNotFound}, zap.NewNop())

	tenantID, jobID := uuid.New(), uuid.New()
	r := httptest.NewRequest(http.MethodGet,
		"/api/tenants/"+tenantID.String()+"/jobs/"+jobID.String(), nil)
	r.SetPathValue("tid", tenantID.String())
	r.SetPathValue("jid", jobID.String())

	w := httptest.NewRecorder()
	h.GetStatus(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
