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
			Type:        "jira",
			DisplayName: "Jira",
			Description: "Create issues in a Jira Cloud project",
		},
		Factory: newJiraCreator,
	})
}

type jiraCreator struct {
	httpClient *http.Client
	baseURL    string
	email      string
	apiToken   string
	projectKey string
	issueType  string
	logger     *zap.Logger
}

func newJiraCreator(config map[string]string, logger *zap.Logger) (IssueCreator, error) {
	if err := requireConfig(config, "base_url", "email", "api_token", "project_key"); err != nil {
		return nil, err
	}

	issueType := config["issue_type"]
	if issueType == "" {
		issueType = "Task"
	}

	return &jiraCreator{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(config["base_url"], "/"),
		email:      config["email"],
		apiToken:   config["api_token"],
		projectKey: config["project_key"],
		issueType:  issueType,
		logger:     logger.Named("export.jira"),
	}, nil
}

func (j *jiraCreator) Target() string {
	return fmt.Sprintf("jira:%s", j.projectKey)
}

// jiraDoc is the minimal Atlassian Document Format wrapper Jira Cloud
// requires for description fields.
type jiraDoc struct {
	Type    string        `json:"type"`
	Version int           `json:"version"`
	Content []jiraDocNode `json:"content"`
}

type jiraDocNode struct {
	Type    string        `json:"type"`
	Content []jiraDocText `json:"content,omitempty"`
}

type jiraDocText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func newJiraDoc(text string) *jiraDoc {
	doc := &jiraDoc{Type: "doc", Version: 1}
	for _, para := range strings.Split(text, "\n\n") {
		node := jiraDocNode{Type: "paragraph"}
		if para != "" {
			node.Content = []jiraDocText{{Type: "text", Text: para}}
		}
		doc.Content = append(doc.Content, node)
	}
	return doc
}

type jiraIssueBody struct {
	Fields jiraIssueFields `json:"fields"`
}

type jiraIssueFields struct {
	Project     jiraRef  `json:"project"`
	IssueType   jiraRef  `json:"issuetype"`
	Summary     string   `json:"summary"`
	Description *jiraDoc `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

type jiraRef struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

type jiraIssueResponse struct {
	Key string `json:"key"`
}

func (j *jiraCreator) CreateIssue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	labels := req.Labels
	if req.Priority != "" {
		labels = append(labels, "priority-"+req.Priority)
	}

	fields := jiraIssueFields{
		Project:   jiraRef{Key: j.projectKey},
		IssueType: jiraRef{Name: j.issueType},
		Summary:   req.Title,
		Labels:    labels,
	}
	if req.Description != "" {
		fields.Description = newJiraDoc(req.Description)
	}

	payload, err := json.Marshal(jiraIssueBody{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal issue: %w", err)
	}

	url := j.baseURL + "/rest/api/3/issue"

	resp, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*jiraIssueResponse, error) {
		return j.postIssue(ctx, url, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("create jira issue in %s: %w", j.projectKey, err)
	}

	j.logger.Info("created issue",
		zap.String("target", j.Target()),
		zap.String("key", resp.Key))

	return &IssueResult{
		ExternalRef: "jira:" + resp.Key,
		URL:         fmt.Sprintf("%s/browse/%s", j.baseURL, resp.Key),
	}, nil
}

func (j *jiraCreator) postIssue(ctx context.Context, url string, payload []byte) (*jiraIssueResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(j.email, j.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := j.httpClient.Do(httpReq)
	if err != nil {
		return nil, &trackerError{status: 0, message: err.Error(), retryable: true}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, newTrackerError(resp.StatusCode, string(body))
	}

	var issue jiraIssueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("decode jira response: %w", err)
	}
	return &issue, nil
}
