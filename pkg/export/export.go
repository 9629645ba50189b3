// Package export ships accepted tickets to external issue trackers.
//
// Adapters self-register in init() and are constructed per request from a
// destination config, so a tenant can point different PRDs at different
// trackers. An item is only marked exported after the adapter confirms the
// remote issue exists.
package export

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// IssueRequest is the tracker-neutral shape of a ticket to create.
type IssueRequest struct {
	Title       string
	Description string
	Priority    string
	Labels      []string
}

// IssueResult identifies the created remote issue.
type IssueResult struct {
	// ExternalRef is the stable reference stored on the item,
	// e.g. "github:acme/shop#42" or "jira:SHOP-142".
	ExternalRef string
	// URL is the browsable location of the issue.
	URL string
}

// IssueCreator creates issues in one external tracker.
type IssueCreator interface {
	// CreateIssue creates a remote issue. It returns a result only when the
	// tracker has durably accepted the issue.
	CreateIssue(ctx context.Context, req IssueRequest) (*IssueResult, error)

	// Target describes the destination for logging ("github:acme/shop").
	Target() string
}

// AdapterInfo describes a registered adapter for destination discovery.
type AdapterInfo struct {
	Type        string `json:"type"`         // "github", "jira"
	DisplayName string `json:"display_name"` // "GitHub Issues"
	Description string `json:"description"`
}

// Registration contains info plus the factory for creating adapters.
type Registration struct {
	Info    AdapterInfo
	Factory func(config map[string]string, logger *zap.Logger) (IssueCreator, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters, sorted by type.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// NewCreator constructs an adapter for the given tracker type.
func NewCreator(trackerType string, config map[string]string, logger *zap.Logger) (IssueCreator, error) {
	registryMu.RLock()
	reg, ok := registry[trackerType]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown tracker type: %s", trackerType)
	}
	return reg.Factory(config, logger)
}

func requireConfig(config map[string]string, keys ...string) error {
	for _, k := range keys {
		if config[k] == "" {
			return fmt.Errorf("missing required config key: %s", k)
		}
	}
	return nil
}
