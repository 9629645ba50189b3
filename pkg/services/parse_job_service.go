package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/config"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/database"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/llm"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/repositories"
)

const (
	parseJobMirrorTTL = 10 * time.Minute
	maxWebsiteBytes   = 512 << 10
	parseTemperature  = 0.2
)

const parseSystemMessage = "You are a product analyst. Extract what the company does, who it serves, " +
	"and what it sells from the page content. Respond with two or three plain paragraphs, no markdown."

// ParseJobService runs the "parse company website" background job: fetch the
// page, have the LLM distill it into company context, and store the result on
// the PRD. Clients poll job status until it reaches a terminal state.
type ParseJobService interface {
	// Start creates the job and dispatches the work. The returned job is in
	// the pending state; progress is observed through GetStatus.
	Start(ctx context.Context, tenantID, prdID uuid.UUID, rawURL string) (*models.ParseJob, error)

	// GetStatus returns the job's current status, from the redis mirror when
	// available, falling back to Postgres.
	GetStatus(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error)
}

type parseJobService struct {
	db          *database.DB
	jobRepo     repositories.ParseJobRepository
	prdRepo     repositories.PRDRepository
	llmClient   llm.LLMClient
	redisClient *redis.Client // optional status mirror
	httpClient  *http.Client
	slots       chan struct{}
	logger      *zap.Logger

	// dispatch runs the job work; swapped out in tests.
	dispatch func(jobID, tenantID, prdID uuid.UUID, rawURL string)
}

// ParseJobServiceDeps contains dependencies for ParseJobService.
type ParseJobServiceDeps struct {
	DB          *database.DB
	JobRepo     repositories.ParseJobRepository
	PRDRepo     repositories.PRDRepository
	LLMClient   llm.LLMClient
	RedisClient *redis.Client
	Config      *config.JobsConfig
	Logger      *zap.Logger
}

// NewParseJobService creates a new ParseJobService.
func NewParseJobService(deps *ParseJobServiceDeps) ParseJobService {
	maxConcurrent := deps.Config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	s := &parseJobService{
		db:          deps.DB,
		jobRepo:     deps.JobRepo,
		prdRepo:     deps.PRDRepo,
		llmClient:   deps.LLMClient,
		redisClient: deps.RedisClient,
		httpClient: &http.Client{
			Timeout: time.Duration(deps.Config.FetchTimeoutSeconds) * time.Second,
		},
		slots:  make(chan struct{}, maxConcurrent),
		logger: deps.Logger.Named("parse-job-service"),
	}
	s.dispatch = s.run
	return s
}

func (s *parseJobService) Start(ctx context.Context, tenantID, prdID uuid.UUID, rawURL string) (*models.ParseJob, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, apperrors.NewValidationError("url", "a full http(s) URL is required")
	}

	// Reject jobs for PRDs the tenant cannot see before queuing anything.
	if _, err := s.prdRepo.GetByID(ctx, tenantID, prdID); err != nil {
		return nil, err
	}

	job := &models.ParseJob{
		TenantID: tenantID,
		PRDID:    prdID,
		URL:      rawURL,
		Status:   models.ParseJobStatusPending,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create parse job: %w", err)
	}

	s.mirrorStatus(ctx, job)

	go s.dispatch(job.ID, tenantID, prdID, rawURL)

	s.logger.Info("queued parse job",
		zap.String("job_id", job.ID.String()),
		zap.String("prd_id", prdID.String()))
	return job, nil
}

func (s *parseJobService) GetStatus(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error) {
	if s.redisClient != nil {
		if job, ok := s.readMirror(ctx, tenantID, jobID); ok {
			return job, nil
		}
	}
	return s.jobRepo.GetByID(ctx, tenantID, jobID)
}

// run executes the job in the background. The request context is gone by the
// time this runs, so it acquires its own tenant scope.
func (s *parseJobService) run(jobID, tenantID, prdID uuid.UUID, rawURL string) {
	s.slots <- struct{}{}
	defer func() { <-s.slots }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	scope, err := s.db.WithTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("parse job could not acquire tenant scope",
			zap.String("job_id", jobID.String()), zap.Error(err))
		return
	}
	defer scope.Close()
	ctx = database.SetTenantScope(ctx, scope)

	s.setStatus(ctx, tenantID, jobID, models.ParseJobStatusRunning, "")

	content, err := s.fetchWebsite(ctx, rawURL)
	if err != nil {
		s.fail(ctx, tenantID, jobID, fmt.Sprintf("fetch website: %v", err))
		return
	}

	summary, err := s.llmClient.GenerateResponse(ctx, content, parseSystemMessage, parseTemperature)
	if err != nil {
		s.fail(ctx, tenantID, jobID, fmt.Sprintf("summarize website: %v", err))
		return
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.fail(ctx, tenantID, jobID, "summarize website: empty response")
		return
	}

	if err := s.prdRepo.UpdateCompanyContext(ctx, tenantID, prdID, summary); err != nil {
		s.fail(ctx, tenantID, jobID, fmt.Sprintf("store company context: %v", err))
		return
	}

	s.setStatus(ctx, tenantID, jobID, models.ParseJobStatusComplete, "")
	s.logger.Info("parse job complete",
		zap.String("job_id", jobID.String()),
		zap.Int("context_len", len(summary)))
}

func (s *parseJobService) fetchWebsite(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "brainbuild-engine/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWebsiteBytes))
	if err != nil {
		return "", err
	}

	text := stripHTML(string(body))
	if text == "" {
		return "", fmt.Errorf("no text content")
	}
	return text, nil
}

var (
	scriptStylePattern = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagPattern         = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespacePattern  = regexp.MustCompile(`[ \t]+`)
	blankLinePattern   = regexp.MustCompile(`\n{3,}`)
)

// stripHTML reduces a page to its visible text. Crude, but the output only
// feeds an LLM summary, not a renderer.
func stripHTML(html string) string {
	text := scriptStylePattern.ReplaceAllString(html, " ")
	text = tagPattern.ReplaceAllString(text, "\n")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = blankLinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func (s *parseJobService) fail(ctx context.Context, tenantID, jobID uuid.UUID, message string) {
	s.logger.Warn("parse job failed",
		zap.String("job_id", jobID.String()),
		zap.String("reason", message))
	s.setStatus(ctx, tenantID, jobID, models.ParseJobStatusFailed, message)
}

func (s *parseJobService) setStatus(ctx context.Context, tenantID, jobID uuid.UUID, status, errMsg string) {
	if err := s.jobRepo.UpdateStatus(ctx, tenantID, jobID, status, errMsg); err != nil {
		s.logger.Error("failed to update job status",
			zap.String("job_id", jobID.String()),
			zap.String("status", status),
			zap.Error(err))
		return
	}
	s.mirrorStatus(ctx, &models.ParseJob{ID: jobID, TenantID: tenantID, Status: status, Error: errMsg})
}

func parseJobKey(tenantID, jobID uuid.UUID) string {
	return fmt.Sprintf("parsejob:%s:%s", tenantID, jobID)
}

// mirrorStatus writes the status into redis so pollers don't hit Postgres
// every two seconds. Best effort.
func (s *parseJobService) mirrorStatus(ctx context.Context, job *models.ParseJob) {
	if s.redisClient == nil {
		return
	}
	value := job.Status
	if job.Error != "" {
		value = job.Status + "|" + job.Error
	}
	if err := s.redisClient.Set(ctx, parseJobKey(job.TenantID, job.ID), value, parseJobMirrorTTL).Err(); err != nil {
		s.logger.Debug("job status mirror write failed", zap.Error(err))
	}
}

func (s *parseJobService) readMirror(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, bool) {
	value, err := s.redisClient.Get(ctx, parseJobKey(tenantID, jobID)).Result()
	if err != nil {
		return nil, false
	}
	job := &models.ParseJob{ID: jobID, TenantID: tenantID}
	if idx := strings.IndexByte(value, '|'); idx >= 0 {
		job.Status = value[:idx]
		job.Error = value[idx+1:]
	} else {
		job.Status = value
	}
	return job, true
}
