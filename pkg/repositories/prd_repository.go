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

// PRDRepository provides data access for PRD documents.
type PRDRepository interface {
	Create(ctx context.Context, prd *models.PRD) error
	GetByID(ctx context.Context, tenantID, prdID uuid.UUID) (*models.PRD, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.PRD, error)
	Update(ctx context.Context, prd *models.PRD) error
	UpdateCompanyContext(ctx context.Context, tenantID, prdID uuid.UUID, companyContext string) error
	Delete(ctx context.Context, tenantID, prdID uuid.UUID) error
}

type prdRepository struct{}

// NewPRDRepository creates a new PRDRepository.
func NewPRDRepository() PRDRepository {
	return &prdRepository{}
}

var _ PRDRepository = (*prdRepository)(nil)

func (r *prdRepository) Create(ctx context.Context, prd *models.PRD) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	now := time.Now()

	query := `
		INSERT INTO engine_prds (tenant_id, name, overview, company_context, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := scope.Conn.QueryRow(ctx, query,
		prd.TenantID,
		prd.Name,
		prd.Overview,
		prd.CompanyContext,
		now,
		now,
	).Scan(&prd.ID, &prd.CreatedAt, &prd.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create PRD: %w", err)
	}

	return nil
}

func (r *prdRepository) GetByID(ctx context.Context, tenantID, prdID uuid.UUID) (*models.PRD, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `
		SELECT id, tenant_id, name, overview, company_context, created_at, updated_at
		FROM engine_prds
		WHERE id = $1 AND tenant_id = $2`

	row := scope.Conn.QueryRow(ctx, query, prdID, tenantID)
	prd, err := scanPRD(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return prd, nil
}

func (r *prdRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.PRD, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `
		SELECT id, tenant_id, name, overview, company_context, created_at, updated_at
		FROM engine_prds
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := scope.Conn.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query PRDs: %w", err)
	}
	defer rows.Close()

	var prds []*models.PRD
	for rows.Next() {
		prd, err := scanPRD(rows)
		if err != nil {
			return nil, err
		}
		prds = append(prds, prd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating PRDs: %w", err)
	}

	return prds, nil
}

func (r *prdRepository) Update(ctx context.Context, prd *models.PRD) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `
		UPDATE engine_prds
		SET name = $3, overview = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	err := scope.Conn.QueryRow(ctx, query,
		prd.ID,
		prd.TenantID,
		prd.Name,
		prd.Overview,
	).Scan(&prd.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update PRD: %w", err)
	}

	return nil
}

func (r *prdRepository) UpdateCompanyContext(ctx context.Context, tenantID, prdID uuid.UUID, companyContext string) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `
		UPDATE engine_prds
		SET company_context = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`

	result, err := scope.Conn.Exec(ctx, query, prdID, tenantID, companyContext)
	if err != nil {
		return fmt.Errorf("failed to update company context: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *prdRepository) Delete(ctx context.Context, tenantID, prdID uuid.UUID) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	// Items and links cascade via FK.
	query := `DELETE FROM engine_prds WHERE id = $1 AND tenant_id = $2`

	result, err := scope.Conn.Exec(ctx, query, prdID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete PRD: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanPRD(row pgx.Row) (*models.PRD, error) {
	var p models.PRD
	err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.Overview,
		&p.CompanyContext,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan PRD: %w", err)
	}
	return &p, nil
}
