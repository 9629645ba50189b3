package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/database"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

// ParseJobRepository provides data access for website-parse jobs.
type ParseJobRepository interface {
	Create(ctx context.Context, job *models.ParseJob) error
	GetByID(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error)
	UpdateStatus(ctx context.Context, tenantID, jobID uuid.UUID, status, errMsg string) error
}

type parseJobRepository struct{}

// NewParseJobRepository creates a new ParseJobRepository.
func NewParseJobRepository() ParseJobRepository {
	return &parseJobRepository{}
}

var _ ParseJobRepository = (*parseJobRepository)(nil)

func (r *parseJobRepository) Create(ctx context.Context, job *models.ParseJob) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	now := time.Now()
	if job.Status == "" {
		job.Status = models.ParseJobStatusPending
	}

	query := `
		INSERT INTO engine_parse_jobs (tenant_id, prd_id, url, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := scope.Conn.QueryRow(ctx, query,
		job.TenantID,
		job.PRDID,
		job.URL,
		job.Status,
		job.Error,
		now,
		now,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create parse job: %w", err)
	}

	return nil
}

func (r *parseJobRepository) GetByID(ctx context.Context, tenantID, jobID uuid.UUID) (*models.ParseJob, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `
		SELECT id, tenant_id, prd_id, url, status, error, created_at, updated_at
		FROM engine_parse_jobs
		WHERE id = $1 AND tenant_id = $2`

	var j models.ParseJob
	err := scope.Conn.QueryRow(ctx, query, jobID, tenantID).Scan(
		&j.ID,
		&j.TenantID,
		&j.PRDID,
		&j.URL,
		&j.Status,
		&j.Error,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan parse job: %w", err)
	}

	return &j, nil
}

func (r *parseJobRepository) UpdateStatus(ctx context.Context, tenantID, jobID uuid.UUID, status, errMsg string) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `
		UPDATE engine_parse_jobs
		SET status = $3, error = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`

	result, err := scope.Conn.Exec(ctx, query, jobID, tenantID, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update parse job status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
