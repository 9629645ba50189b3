package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/retry"
)

func init() {
	Register(Registration{
		Info: AdapterInfo{
			Type:        "github",
			DisplayName: "GitHub Issues",
			Description: "Create issues in a GitHub repository",
		},
		Factory: newGitHubCreator,
	})
}

const defaultGitHubBaseURL = "https://api.github.com"

type githubCreator struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	token      string
	logger     *zap.Logger
}

func newGitHubCreator(config map[string]string, logger *zap.Logger) (IssueCreator, error) {
	if err := requireConfig(config, "owner", "repo", "token"); err != nil {
		return nil, err
	}

	baseURL := config["base_url"]
	if baseURL == "" {
		baseURL = defaultGitHubBaseURL
	}

	return &githubCreator{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		owner:      config["owner"],
		repo:       config["repo"],
		token:      config["token"],
		logger:     logger.Named("export.github"),
	}, nil
}

func (g *githubCreator) Target() string {
	return fmt.Sprintf("github:%s/%s", g.owner, g.repo)
}

type githubIssueBody struct {
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

type githubIssueResponse struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

func (g *githubCreator) CreateIssue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	labels := req.Labels
	if req.Priority != "" {
		labels = append(labels, "priority:"+req.Priority)
	}

	payload, err := json.Marshal(githubIssueBody{
		Title:  req.Title,
		Body:   req.Description,
		Labels: labels,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal issue: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues", g.baseURL, g.owner, g.repo)

	resp, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*githubIssueResponse, error) {
		return g.postIssue(ctx, url, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("create github issue in %s/%s: %w", g.owner, g.repo, err)
	}

	g.logger.Info("created issue",
		zap.String("target", g.Target()),
		zap.Int("number", resp.Number))

	return &IssueResult{
		ExternalRef: fmt.Sprintf("github:%s/%s#%d", g.owner, g.repo, resp.Number),
		URL:         resp.HTMLURL,
	}, nil
}

func (g *githubCreator) postIssue(ctx context.Context, url string, payload []byte) (*githubIssueResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("Authorization", "Bearer "+g.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, &trackerError{status: 0, message: err.Error(), retryable: true}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusCreated {
		return nil, newTrackerError(resp.StatusCode, string(body))
	}

	var issue githubIssueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}
	return &issue, nil
}
