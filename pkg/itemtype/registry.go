// Package itemtype defines the closed set of suggestion-bearing item types
// and the per-type descriptors the lifecycle engine dispatches on.
//
// Every section of a PRD (personas, goals, problems, ...) stores the same row
// shape and obeys the same accept/reject/prioritize state machine; the only
// real differences are captured here: whether the type supports a priority,
// and whether it links to its document directly or through the join table.
package itemtype

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
)

// Type tags an item row with its PRD section.
type Type string

const (
	Persona         Type = "persona"
	UserInterview   Type = "user_interview"
	Goal            Type = "goal"
	Problem         Type = "problem"
	SuccessCriteria Type = "success_criteria"
	Feature         Type = "feature"
	Story           Type = "story"
	Ticket          Type = "ticket"
	Risk            Type = "risk"
	Product         Type = "product"
)

// Linkage describes how items of a type attach to their PRD.
type Linkage string

const (
	// LinkageDirect types carry prd_id on the item row itself.
	LinkageDirect Linkage = "direct"
	// LinkageJoin types attach through engine_prd_item_links rows, which are
	// the sole source of truth for membership and are replaced wholesale on
	// every sync.
	LinkageJoin Linkage = "join"
)

// Descriptor holds the per-type behavior the lifecycle engine needs.
type Descriptor struct {
	Type          Type
	Linkage       Linkage
	Prioritizable bool

	// Singular and Plural are the display/prompt nouns ("user interview",
	// "user interviews").
	Singular string
	Plural   string
}

func newDescriptor(t Type, linkage Linkage, prioritizable bool) Descriptor {
	singular := strings.ReplaceAll(string(t), "_", " ")
	return Descriptor{
		Type:          t,
		Linkage:       linkage,
		Prioritizable: prioritizable,
		Singular:      singular,
		Plural:        inflection.Plural(singular),
	}
}

// registry is the closed descriptor table. Ticket is the only type without a
// priority; persona and user_interview are the many-to-many types.
var registry = map[Type]Descriptor{
	Persona:         newDescriptor(Persona, LinkageJoin, true),
	UserInterview:   newDescriptor(UserInterview, LinkageJoin, true),
	Goal:            newDescriptor(Goal, LinkageDirect, true),
	Problem:         newDescriptor(Problem, LinkageDirect, true),
	SuccessCriteria: newDescriptor(SuccessCriteria, LinkageDirect, true),
	Feature:         newDescriptor(Feature, LinkageDirect, true),
	Story:           newDescriptor(Story, LinkageDirect, true),
	Ticket:          newDescriptor(Ticket, LinkageDirect, false),
	Risk:            newDescriptor(Risk, LinkageDirect, true),
	Product:         newDescriptor(Product, LinkageDirect, true),
}

// Lookup returns the descriptor for a type tag.
func Lookup(t Type) (Descriptor, bool) {
	d, ok := registry[t]
	return d, ok
}

// Parse validates a raw string against the registry and returns its type tag.
func Parse(raw string) (Type, error) {
	t := Type(raw)
	if _, ok := registry[t]; !ok {
		return "", fmt.Errorf("unknown item type %q", raw)
	}
	return t, nil
}

// All returns every descriptor, sorted by type tag for stable iteration.
func All() []Descriptor {
	descriptors := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		descriptors = append(descriptors, d)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Type < descriptors[j].Type
	})
	return descriptors
}

// IsValid reports whether t is a registered type tag.
func IsValid(t Type) bool {
	_, ok := registry[t]
	return ok
}
