package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

// APIError is a non-2xx response from the engine.
type APIError struct {
	StatusCode int
	Code       string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.StatusCode)
}

// Client is the Go API client for the engine.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client for the engine at baseURL authenticating with the
// given bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Code = "unknown_error"
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type itemsEnvelope struct {
	Items []*models.Item `json:"items"`
}

// ListSection returns every item in a PRD section.
func (c *Client) ListSection(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	var env itemsEnvelope
	path := fmt.Sprintf("/api/tenants/%s/prds/%s/items/%s", tenantID, prdID, t)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// AddItem creates a manual item in a section.
func (c *Client) AddItem(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, name, description string) (*models.Item, error) {
	var item models.Item
	path := fmt.Sprintf("/api/tenants/%s/prds/%s/items/%s", tenantID, prdID, t)
	body := map[string]string{"name": name, "description": description}
	if err := c.do(ctx, http.MethodPost, path, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Transition describes a lifecycle transition to apply.
type Transition struct {
	Action      string      `json:"action"`
	ItemID      uuid.UUID   `json:"item_id,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	SelectedIDs []uuid.UUID `json:"selected_ids,omitempty"`
}

// ApplyTransition applies an accept/reject/prioritize/sync transition.
func (c *Client) ApplyTransition(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, transition Transition) error {
	path := fmt.Sprintf("/api/tenants/%s/prds/%s/items/%s/transitions", tenantID, prdID, t)
	return c.do(ctx, http.MethodPost, path, transition, nil)
}

// GenerateSuggestions requests AI suggestions for a section.
func (c *Client) GenerateSuggestions(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, regenerate bool) ([]*models.Item, error) {
	var env itemsEnvelope
	path := fmt.Sprintf("/api/tenants/%s/prds/%s/suggestions/%s", tenantID, prdID, t)
	body := map[string]bool{"regenerate": regenerate}
	if err := c.do(ctx, http.MethodPost, path, body, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// AcceptDescription promotes an item's suggested description.
func (c *Client) AcceptDescription(ctx context.Context, tenantID, itemID uuid.UUID) error {
	path := fmt.Sprintf("/api/tenants/%s/items/%s/accept-description", tenantID, itemID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// RenameItem changes an item's name.
func (c *Client) RenameItem(ctx context.Context, tenantID, itemID uuid.UUID, name string) error {
	path := fmt.Sprintf("/api/tenants/%s/items/%s/name", tenantID, itemID)
	return c.do(ctx, http.MethodPatch, path, map[string]string{"name": name}, nil)
}

// ModifyDescription overwrites an item's description.
func (c *Client) ModifyDescription(ctx context.Context, tenantID, itemID uuid.UUID, description string) error {
	path := fmt.Sprintf("/api/tenants/%s/items/%s/description", tenantID, itemID)
	return c.do(ctx, http.MethodPatch, path, map[string]string{"description": description}, nil)
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	path := fmt.Sprintf("/api/tenants/%s/items/%s", tenantID, itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// StartWebsiteParse starts a website-parse job and returns its id.
func (c *Client) StartWebsiteParse(ctx context.Context, tenantID, prdID uuid.UUID, url string) (uuid.UUID, error) {
	var resp struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/api/tenants/%s/prds/%s/parse-website", tenantID, prdID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"url": url}, &resp); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(resp.ID)
}

// GetParseJob fetches a parse job's status. Implements JobStatusFetcher.
func (c *Client) GetParseJob(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error) {
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	path := fmt.Sprintf("/api/tenants/%s/jobs/%s", tenantID, jobID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(resp.ID)
	if err != nil {
		return nil, fmt.Errorf("decode job id: %w", err)
	}
	return &models.ParseJob{ID: id, TenantID: tenantID, Status: resp.Status, Error: resp.Error}, nil
}

var _ JobStatusFetcher = (*Client)(nil)
