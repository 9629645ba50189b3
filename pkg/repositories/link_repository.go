package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/database"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

// LinkRepository manages the many-to-many attachment rows between PRDs and
// join-linkage items (personas, user interviews).
//
// Link rows are the sole source of truth for membership. ReplaceLinks is
// deliberately full-replace rather than diff-based: delete-then-insert inside
// one transaction is idempotent no matter how far the client's view has
// drifted, at the cost of not preserving created_at on surviving links. The
// set is unordered; consumers must not rely on row order.
type LinkRepository interface {
	// ReplaceLinks atomically replaces the full link set for (prd, type)
	// with the selected items. A failure anywhere rolls back to the
	// pre-call state; no partially-deleted state is ever observable.
	ReplaceLinks(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, itemIDs []uuid.UUID) error

	// ListLinks returns the current link set for (prd, type).
	ListLinks(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.PRDItemLink, error)

	// ListLinkedItems returns the items attached to the PRD through links.
	ListLinkedItems(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error)
}

type linkRepository struct{}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository() LinkRepository {
	return &linkRepository{}
}

var _ LinkRepository = (*linkRepository)(nil)

func (r *linkRepository) ReplaceLinks(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, itemIDs []uuid.UUID) error {
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
		DELETE FROM engine_prd_item_links
		WHERE tenant_id = $1 AND prd_id = $2 AND item_type = $3`,
		tenantID, prdID, string(t))
	if err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}

	now := time.Now()
	seen := make(map[uuid.UUID]bool, len(itemIDs))
	for _, itemID := range itemIDs {
		// Clients can double-submit the same id; the set semantics make the
		// duplicate a no-op rather than a conflict.
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		_, err := tx.Exec(ctx, `
			INSERT INTO engine_prd_item_links (tenant_id, prd_id, item_id, item_type, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			tenantID, prdID, itemID, string(t), now)
		if err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit link replacement: %w", err)
	}

	return nil
}

func (r *linkRepository) ListLinks(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.PRDItemLink, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `
		SELECT tenant_id, prd_id, item_id, item_type, created_at
		FROM engine_prd_item_links
		WHERE tenant_id = $1 AND prd_id = $2 AND item_type = $3`

	rows, err := scope.Conn.Query(ctx, query, tenantID, prdID, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []*models.PRDItemLink
	for rows.Next() {
		var link models.PRDItemLink
		var typeTag string
		if err := rows.Scan(&link.TenantID, &link.PRDID, &link.ItemID, &typeTag, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		link.ItemType = itemtype.Type(typeTag)
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

func (r *linkRepository) ListLinkedItems(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) ([]*models.Item, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `
		SELECT i.id, i.tenant_id, i.prd_id, i.item_type, i.name, i.description,
		       i.suggested_description, i.is_accepted, i.is_added_manually,
		       i.is_suggested, i.priority, i.external_ref, i.created_at, i.updated_at
		FROM engine_items i
		JOIN engine_prd_item_links l
		  ON l.item_id = i.id AND l.tenant_id = i.tenant_id
		WHERE l.tenant_id = $1 AND l.prd_id = $2 AND l.item_type = $3
		ORDER BY i.created_at`

	rows, err := scope.Conn.Query(ctx, query, tenantID, prdID, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to query linked items: %w", err)
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
		return nil, fmt.Errorf("error iterating linked items: %w", err)
	}

	return items, nil
}
