package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
)

// Priority values for prioritizable item types.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Item is a suggestion-bearing entity in a PRD section (persona, goal,
// problem, ...). Stored in the engine_items table.
//
// Lifecycle: rows created by the suggestion generator start with
// IsSuggested=true, IsAccepted=false; rows the user typed directly start with
// IsAddedManually=true, IsAccepted=true. Accept/reject flip IsAccepted; a row
// absent from the accepted set is simply still a suggestion (or gone).
type Item struct {
	ID       uuid.UUID     `json:"id"`
	TenantID uuid.UUID     `json:"tenant_id"`
	PRDID    uuid.UUID     `json:"prd_id"`
	Type     itemtype.Type `json:"item_type"`

	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	SuggestedDescription *string `json:"suggested_description,omitempty"`

	IsAccepted      bool `json:"is_accepted"`
	IsAddedManually bool `json:"is_added_manually"`
	IsSuggested     bool `json:"is_suggested"`

	// Priority is only meaningful for prioritizable types; defaults to medium.
	Priority string `json:"priority"`

	// ExternalRef holds the exported issue reference for tickets pushed to
	// GitHub/Jira. Set only after the export adapter succeeds.
	ExternalRef *string `json:"external_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PRDItemLink attaches a many-to-many item (persona, user interview) to a
// PRD. Stored in engine_prd_item_links. Link rows are the sole source of
// truth for membership; sync replaces the full set for (prd, type) and the
// set is unordered.
type PRDItemLink struct {
	TenantID  uuid.UUID     `json:"tenant_id"`
	PRDID     uuid.UUID     `json:"prd_id"`
	ItemID    uuid.UUID     `json:"item_id"`
	ItemType  itemtype.Type `json:"item_type"`
	CreatedAt time.Time     `json:"created_at"`
}
