package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

func TestClientGetParseJob(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, fmt.Sprintf("/api/tenants/%s/jobs/%s", tenantID, jobID), r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":%q,"status":"running"}`, jobID)
	}))
	defer server.Close()

	c := New(server.URL, "test-token")
	job, err := c.GetParseJob(context.Background(), tenantID, jobID)
	require.NoError(t, err)
	assert.Equal(t, jobID, job.ID)
	assert.Equal(t, models.ParseJobStatusRunning, job.Status)
	assert.False(t, job.Terminal())
}

func TestClientListSection(t *testing.T) {
	tenantID := uuid.New()
	prdID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/api/tenants/%s/prds/%s/items/feature", tenantID, prdID), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[{"id":%q,"name":"Guest checkout"}]}`, uuid.New())
	}))
	defer server.Close()

	c := New(server.URL, "token")
	items, err := c.ListSection(context.Background(), tenantID, prdID, itemtype.Feature)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Guest checkout", items[0].Name)
}

func TestClientApplyTransitionSendsBody(t *testing.T) {
	itemID := uuid.New()
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = string(body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "token")
	err := c.ApplyTransition(context.Background(), uuid.New(), uuid.New(), itemtype.Goal, Transition{
		Action: "accept",
		ItemID: itemID,
	})
	require.NoError(t, err)
	assert.Contains(t, gotBody, `"action":"accept"`)
	assert.Contains(t, gotBody, itemID.String())
}

func TestClientDecodesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error":"generation_running","message":"a generation is already in progress"}`)
	}))
	defer server.Close()

	c := New(server.URL, "token")
	_, err := c.GenerateSuggestions(context.Background(), uuid.New(), uuid.New(), itemtype.Feature, false)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "generation_running", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "generation_running")
}

func TestClientValidationErrorFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"validation_error","fields":{"name":"name is required"}}`)
	}))
	defer server.Close()

	c := New(server.URL, "token")
	_, err := c.AddItem(context.Background(), uuid.New(), uuid.New(), itemtype.Feature, "", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "name is required", apiErr.Fields["name"])
}

func TestClientNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	}))
	defer server.Close()

	c := New(server.URL, "token")
	err := c.DeleteItem(context.Background(), uuid.New(), uuid.New())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unknown_error", apiErr.Code)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestClientStartWebsiteParse(t *testing.T) {
	jobID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprintf(w, `{"id":%q,"status":"pending"}`, jobID)
	}))
	defer server.Close()

	c := New(server.URL, "token")
	got, err := c.StartWebsiteParse(context.Background(), uuid.New(), uuid.New(), "https://acme.example")
	require.NoError(t, err)
	assert.Equal(t, jobID, got)
}
