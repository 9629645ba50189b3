package models

import (
	"time"

	"github.com/google/uuid"
)

// PRD is a product requirements document, the parent of every item and link.
// Stored in engine_prds. Deleting a PRD cascades to its items and links.
type PRD struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	Name     string `json:"name"`
	Overview string `json:"overview"`

	// CompanyContext is filled in by the website-parse job.
	CompanyContext string `json:"company_context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
