package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
)

// Template holds the configurable pieces of a suggestion prompt for one item type.
type Template struct {
	// System is the system message sent with every request for this type.
	System string `yaml:"system"`
	// Instructions describes what a good item of this type looks like.
	Instructions string `yaml:"instructions"`
	// Count is how many suggestions to request. Zero falls back to the default.
	Count int `yaml:"count"`
}

// Library maps item types to their prompt templates.
type Library struct {
	Defaults Template            `yaml:"defaults"`
	Types    map[string]Template `yaml:"types"`
}

const defaultSuggestionCount = 5

const defaultSystem = "You are a senior product manager helping a team draft a product requirements document. " +
	"Respond only with a JSON array. Do not include any prose outside the JSON."

// LoadLibrary reads a prompt library from a YAML file. A missing file is not an
// error; the built-in defaults are used instead.
func LoadLibrary(path string) (*Library, error) {
	lib := &Library{
		Defaults: Template{System: defaultSystem, Count: defaultSuggestionCount},
		Types:    map[string]Template{},
	}

	if path == "" {
		return lib, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("read prompt library %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lib); err != nil {
		return nil, fmt.Errorf("parse prompt library %s: %w", path, err)
	}

	if lib.Defaults.System == "" {
		lib.Defaults.System = defaultSystem
	}
	if lib.Defaults.Count == 0 {
		lib.Defaults.Count = defaultSuggestionCount
	}
	if lib.Types == nil {
		lib.Types = map[string]Template{}
	}

	return lib, nil
}

// Resolve returns the template for an item type with defaults filled in.
func (l *Library) Resolve(t itemtype.Type) Template {
	tpl := l.Types[string(t)]
	if tpl.System == "" {
		tpl.System = l.Defaults.System
	}
	if tpl.Instructions == "" {
		tpl.Instructions = l.Defaults.Instructions
	}
	if tpl.Count == 0 {
		tpl.Count = l.Defaults.Count
	}
	return tpl
}

// ExistingItem is an already-present item included in the prompt so the model
// avoids duplicates and stays consistent with accepted content.
type ExistingItem struct {
	Name        string
	Description string
	Accepted    bool
}

// PRDContext carries the document state a suggestion prompt is built from.
type PRDContext struct {
	Name           string
	Overview       string
	CompanyContext string
	Existing       map[itemtype.Type][]ExistingItem
}

// BuildSuggestionPrompt creates the user prompt asking for new items of the
// given type. The response format is a JSON array of {name, description}.
func BuildSuggestionPrompt(lib *Library, t itemtype.Type, prd PRDContext) (prompt string, system string) {
	desc, _ := itemtype.Lookup(t)
	tpl := lib.Resolve(t)

	var b strings.Builder

	fmt.Fprintf(&b, "# Suggest %s\n\n", desc.Plural)
	fmt.Fprintf(&b, "Suggest %d new %s for the product described below.\n\n", tpl.Count, desc.Plural)

	b.WriteString("## Product\n\n")
	fmt.Fprintf(&b, "Name: %s\n", prd.Name)
	if prd.Overview != "" {
		fmt.Fprintf(&b, "\n%s\n", prd.Overview)
	}

	if prd.CompanyContext != "" {
		b.WriteString("\n## Company Context\n\n")
		b.WriteString(prd.CompanyContext)
		b.WriteString("\n")
	}

	writeExisting(&b, t, prd.Existing)

	if tpl.Instructions != "" {
		b.WriteString("\n## Guidance\n\n")
		b.WriteString(tpl.Instructions)
		b.WriteString("\n")
	}

	b.WriteString("\n## Response Format\n\n")
	fmt.Fprintf(&b, "Respond with a JSON array of exactly %d objects:\n", tpl.Count)
	b.WriteString("[{\"name\": \"short name\", \"description\": \"one or two sentences\"}]\n")
	fmt.Fprintf(&b, "Do not repeat any existing %s.\n", desc.Singular)

	return b.String(), tpl.System
}

// writeExisting lists current document content, the requested type first.
func writeExisting(b *strings.Builder, requested itemtype.Type, existing map[itemtype.Type][]ExistingItem) {
	if len(existing) == 0 {
		return
	}

	ordered := []itemtype.Type{requested}
	for _, d := range itemtype.All() {
		if d.Type != requested {
			ordered = append(ordered, d.Type)
		}
	}

	wroteHeader := false
	for _, t := range ordered {
		items := existing[t]
		if len(items) == 0 {
			continue
		}
		if !wroteHeader {
			b.WriteString("\n## Existing Content\n\n")
			wroteHeader = true
		}
		desc, _ := itemtype.Lookup(t)
		fmt.Fprintf(b, "### %s\n", desc.Plural)
		for _, item := range items {
			state := "pending"
			if item.Accepted {
				state = "accepted"
			}
			if item.Description != "" {
				fmt.Fprintf(b, "- %s (%s): %s\n", item.Name, state, item.Description)
			} else {
				fmt.Fprintf(b, "- %s (%s)\n", item.Name, state)
			}
		}
		b.WriteString("\n")
	}
}
