package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values for website-parse jobs. Clients poll the job status endpoint
// until it leaves the pending/running states.
const (
	ParseJobStatusPending  = "pending"
	ParseJobStatusRunning  = "running"
	ParseJobStatusComplete = "complete"
	ParseJobStatusFailed   = "failed"
)

// ParseJob tracks one "parse company website" background job.
// Stored in engine_parse_jobs; status is mirrored into Redis when configured
// so pollers don't hit Postgres every two seconds.
type ParseJob struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	PRDID    uuid.UUID `json:"prd_id"`

	URL    string `json:"url"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the job has finished (successfully or not).
func (j *ParseJob) Terminal() bool {
	return j.Status == ParseJobStatusComplete || j.Status == ParseJobStatusFailed
}
