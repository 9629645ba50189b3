package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

type scriptedFetcher struct {
	mu       sync.Mutex
	statuses []string
	err      error
	calls    int
}

func (f *scriptedFetcher) GetParseJob(_ context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	idx := f.calls
	f.calls++
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	job := &models.ParseJob{ID: jobID, TenantID: tenantID, Status: f.statuses[idx]}
	if job.Status == models.ParseJobStatusFailed {
		job.Error = "fetch returned 403"
	}
	return job, nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestJobPollerWaitsUntilComplete(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []string{
		models.ParseJobStatusPending,
		models.ParseJobStatusRunning,
		models.ParseJobStatusComplete,
	}}
	poller := NewJobPoller(fetcher, time.Millisecond)

	job, err := poller.Wait(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.ParseJobStatusComplete, job.Status)
	assert.Equal(t, 3, fetcher.callCount())
}

func TestJobPollerReturnsFailedJobWithoutError(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []string{
		models.ParseJobStatusRunning,
		models.ParseJobStatusFailed,
	}}
	poller := NewJobPoller(fetcher, time.Millisecond)

	job, err := poller.Wait(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.ParseJobStatusFailed, job.Status)
	assert.Equal(t, "fetch returned 403", job.Error)
}

func TestJobPollerImmediateTerminalState(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []string{models.ParseJobStatusComplete}}
	poller := NewJobPoller(fetcher, time.Hour)

	job, err := poller.Wait(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.ParseJobStatusComplete, job.Status)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestJobPollerStopsOnContextCancel(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []string{models.ParseJobStatusRunning}}
	poller := NewJobPoller(fetcher, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := poller.Wait(ctx, uuid.New(), uuid.New())
	require.ErrorIs(t, err, context.Canceled)
}

func TestJobPollerPropagatesFetchErrors(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := &scriptedFetcher{err: fetchErr}
	poller := NewJobPoller(fetcher, time.Millisecond)

	_, err := poller.Wait(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, fetchErr)
}
