package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

// DefaultPollInterval is the fixed delay between job status polls. The job
// endpoint is cheap (redis-backed on the server), so there is no backoff.
const DefaultPollInterval = 2 * time.Second

// JobStatusFetcher fetches the current status of a parse job.
type JobStatusFetcher interface {
	GetParseJob(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error)
}

// JobPoller polls a parse job at a fixed interval until it reaches a
// terminal state or the context is canceled.
type JobPoller struct {
	fetcher  JobStatusFetcher
	interval time.Duration
}

// NewJobPoller creates a JobPoller. A non-positive interval uses
// DefaultPollInterval.
func NewJobPoller(fetcher JobStatusFetcher, interval time.Duration) *JobPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &JobPoller{fetcher: fetcher, interval: interval}
}

// Wait polls until the job is complete or failed and returns its final
// state. A failed job is not an error from Wait's perspective; the caller
// inspects Status and Error. Fetch errors and context cancellation abort
// the wait.
func (p *JobPoller) Wait(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		job, err := p.fetcher.GetParseJob(ctx, tenantID, jobID)
		if err != nil {
			return nil, fmt.Errorf("poll job %s: %w", jobID, err)
		}
		if job.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
