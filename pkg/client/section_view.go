// Package client holds the engine's Go API client and the view-side state
// machinery a frontend needs to stay responsive against it: optimistic
// section views, input debouncing, and job polling.
package client

import (
	"sync"

	"github.com/google/uuid"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
)

// localIDPrefix marks optimistic entries that have no server identity yet.
const localIDPrefix = "local-"

// PendingItem is an optimistic entry rendered before the server confirms it.
type PendingItem struct {
	// TempID is "local-" + uuid; it never collides with a server id.
	TempID      string
	Name        string
	Description string
}

// SectionView reconciles one PRD section's server state with optimistic
// local additions.
//
// The reconciliation rule is deliberately blunt: every canonical snapshot
// replaces the confirmed list AND drops all pending entries, whether or not
// the snapshot contains them. A pending entry the server accepted shows up in
// the snapshot under its real id; one the server rejected disappears. Either
// way the view converges on the server.
type SectionView struct {
	mu        sync.Mutex
	confirmed []*models.Item
	pending   []PendingItem
}

// NewSectionView creates an empty SectionView.
func NewSectionView() *SectionView {
	return &SectionView{}
}

// SubmitLocal adds an optimistic entry and returns its temp id.
func (v *SectionView) SubmitLocal(name, description string) string {
	tempID := localIDPrefix + uuid.NewString()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = append(v.pending, PendingItem{
		TempID:      tempID,
		Name:        name,
		Description: description,
	})
	return tempID
}

// ApplyCanonical installs a server snapshot, clearing all pending entries.
func (v *SectionView) ApplyCanonical(items []*models.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirmed = make([]*models.Item, len(items))
	copy(v.confirmed, items)
	v.pending = nil
}

// Rendered returns the display order: confirmed items first, then pending
// entries in submission order.
type Rendered struct {
	Confirmed []*models.Item
	Pending   []PendingItem
}

// Snapshot returns the current rendered state.
func (v *SectionView) Snapshot() Rendered {
	v.mu.Lock()
	defer v.mu.Unlock()

	confirmed := make([]*models.Item, len(v.confirmed))
	copy(confirmed, v.confirmed)
	pending := make([]PendingItem, len(v.pending))
	copy(pending, v.pending)

	return Rendered{Confirmed: confirmed, Pending: pending}
}

// PendingCount reports how many optimistic entries await confirmation.
func (v *SectionView) PendingCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}
