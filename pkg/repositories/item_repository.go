package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/database"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

const itemColumns = `id, tenant_id, prd_id, item_type, name, description,
	suggested_description, is_accepted, is_added_manually, is_suggested,
	priority, external_ref, created_at, updated_at`

// ItemRepository provides data access for suggestion-bearing items.
// Every mutation is scoped by (id, tenant_id); a tenant mismatch affects zero
// rows and surfaces as apperrors.ErrNotFound, never as cross-tenant data.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*models.Item, error)
	ListByPRD(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error)
	ListSuggested(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error)

	// SetAccepted flips the acceptance flag on (itemID, tenantID).
	SetAccepted(ctx context.Context, tenantID, itemID uuid.UUID, accepted bool) error
	// SetPriority updates the priority on (itemID, tenantID). Callers must
	// have already checked the type is prioritizable.
	SetPriority(ctx context.Context, tenantID, itemID uuid.UUID, priority string) error
	// Rename updates the item name.
	Rename(ctx context.Context, tenantID, itemID uuid.UUID, name string) error
	// UpdateDescription replaces the user-facing description.
	UpdateDescription(ctx context.Context, tenantID, itemID uuid.UUID, description string) error
	// AcceptSuggestedDescription promotes the AI-suggested description into
	// the accepted description and marks the item accepted. No-ops the
	// description copy when no suggestion exists but still accepts.
	AcceptSuggestedDescription(ctx context.Context, tenantID, itemID uuid.UUID) error
	// SetExternalRef records the exported issue reference on a ticket.
	SetExternalRef(ctx context.Context, tenantID, itemID uuid.UUID, ref string) error
	Delete(ctx context.Context, tenantID, itemID uuid.UUID) error

	// ReplaceSuggestions atomically deletes the unaccepted suggestions for
	// (prd, type) and inserts the fresh batch. Accepted rows are untouched,
	// so regeneration never duplicates or loses accepted items.
	ReplaceSuggestions(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, items []*models.Item) error
}

type itemRepository struct{}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository() ItemRepository {
	return &itemRepository{}
}

var _ ItemRepository = (*itemRepository)(nil)

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	now := time.Now()
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}

	query := `
		INSERT INTO engine_items (
			tenant_id, prd_id, item_type, name, description,
			suggested_description, is_accepted, is_added_manually,
			is_suggested, priority, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := scope.Conn.QueryRow(ctx, query,
		item.TenantID,
		item.PRDID,
		string(item.Type),
		item.Name,
		item.Description,
		item.SuggestedDescription,
		item.IsAccepted,
		item.IsAddedManually,
		item.IsSuggested,
		item.Priority,
		now,
		now,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*models.Item, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `SELECT ` + itemColumns + `
		FROM engine_items
		WHERE id = $1 AND tenant_id = $2`

	row := scope.Conn.QueryRow(ctx, query, itemID, tenantID)
	item, err := scanItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return item, nil
}

func (r *itemRepository) ListByPRD(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	return r.list(ctx, tenantID, prdID, t, false)
}

func (r *itemRepository) ListSuggested(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	return r.list(ctx, tenantID, prdID, t, true)
}

func (r *itemRepository) list(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, suggestedOnly bool) ([]*models.Item, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `SELECT ` + itemColumns + `
		FROM engine_items
		WHERE tenant_id = $1 AND prd_id = $2 AND item_type = $3`
	if suggestedOnly {
		query += ` AND is_suggested = true AND is_accepted = false`
	}
	query += ` ORDER BY created_at`

	rows, err := scope.Conn.Query(ctx, query, tenantID, prdID, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (r *itemRepository) SetAccepted(ctx context.Context, tenantID, itemID uuid.UUID, accepted bool) error {
	query := `
		UPDATE engine_items
		SET is_accepted = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`
	return r.exec(ctx, query, itemID, tenantID, accepted)
}

func (r *itemRepository) SetPriority(ctx context.Context, tenantID, itemID uuid.UUID, priority string) error {
	query := `
		UPDATE engine_items
		SET priority = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`
	return r.exec(ctx, query, itemID, tenantID, priority)
}

func (r *itemRepository) Rename(ctx context.Context, tenantID, itemID uuid.UUID, name string) error {
	query := `
		UPDATE engine_items
		SET name = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`
	return r.exec(ctx, query, itemID, tenantID, name)
}

func (r *itemRepository) UpdateDescription(ctx context.Context, tenantID, itemID uuid.UUID, description string) error {
	query := `
		UPDATE engine_items
		SET description = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`
	return r.exec(ctx, query, itemID, tenantID, description)
}

func (r *itemRepository) AcceptSuggestedDescription(ctx context.Context, tenantID, itemID uuid.UUID) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `
		UPDATE engine_items
		SET description = COALESCE(suggested_description, description),
		    is_accepted = true,
		    updated_at = now()
		WHERE id = $1 AND tenant_id = $2`

	result, err := scope.Conn.Exec(ctx, query, itemID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to accept suggested description: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *itemRepository) SetExternalRef(ctx context.Context, tenantID, itemID uuid.UUID, ref string) error {
	query := `
		UPDATE engine_items
		SET external_ref = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`
	return r.exec(ctx, query, itemID, tenantID, ref)
}

func (r *itemRepository) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `DELETE FROM engine_items WHERE id = $1 AND tenant_id = $2`

	result, err := scope.Conn.Exec(ctx, query, itemID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *itemRepository) ReplaceSuggestions(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, items []*models.Item) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		DELETE FROM engine_items
		WHERE tenant_id = $1 AND prd_id = $2 AND item_type = $3
		  AND is_suggested = true AND is_accepted = false`,
		tenantID, prdID, string(t))
	if err != nil {
		return fmt.Errorf("failed to clear prior suggestions: %w", err)
	}

	now := time.Now()
	for _, item := range items {
		if item.Priority == "" {
			item.Priority = models.PriorityMedium
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO engine_items (
				tenant_id, prd_id, item_type, name, description,
				suggested_description, is_accepted, is_added_manually,
				is_suggested, priority, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, false, false, true, $7, $8, $8)
			RETURNING id, created_at, updated_at`,
			tenantID, prdID, string(t),
			item.Name, item.Description, item.SuggestedDescription,
			item.Priority, now,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert suggestion: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit suggestion replacement: %w", err)
	}

	return nil
}

// exec runs a single-row mutation and maps zero affected rows to ErrNotFound.
// A cross-tenant id lands here too: the predicate matches nothing and the
// caller sees a plain not-found.
func (r *itemRepository) exec(ctx context.Context, query string, args ...any) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	result, err := scope.Conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var it models.Item
	var typeTag string

	err := row.Scan(
		&it.ID,
		&it.TenantID,
		&it.PRDID,
		&typeTag,
		&it.Name,
		&it.Description,
		&it.SuggestedDescription,
		&it.IsAccepted,
		&it.IsAddedManually,
		&it.IsSuggested,
		&it.Priority,
		&it.ExternalRef,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	it.Type = itemtype.Type(typeTag)
	return &it, nil
}
