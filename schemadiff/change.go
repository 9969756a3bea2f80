// Package schemadiff reports the differences between the JSON schemas
// published with two BO4E releases. An empty change set means the release
// made no functional change to the data model.
package schemadiff

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// Oracle diffs the published schemas of two versions.
type Oracle interface {
	Diff(ctx context.Context, from, to version.Version) ([]Change, error)
}

// Kind classifies a schema change.
type Kind string

const (
	KindSchemaAdded   Kind = "schema-added"
	KindSchemaRemoved Kind = "schema-removed"
	KindFieldAdded    Kind = "field-added"
	KindFieldRemoved  Kind = "field-removed"
	KindValueChanged  Kind = "value-changed"
	KindTypeChanged   Kind = "type-changed"
)

// Change is one semantic difference between two schema sets.
type Change struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Schema names the schema file relative to the schema directory without
	// its extension, e.g. "bo/Angebot".
	Schema string `json:"schema" yaml:"schema"`

	// Path is the JSON pointer of the changed node within the schema; empty
	// for schema level changes.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	Old any `json:"old,omitempty" yaml:"old,omitempty"`
	New any `json:"new,omitempty" yaml:"new,omitempty"`
}

// String renders the change as one line.
func (c Change) String() string {
	switch c.Kind {
	case KindSchemaAdded, KindSchemaRemoved:
		return fmt.Sprintf("%s: %s", c.Kind, c.Schema)
	case KindFieldAdded:
		return fmt.Sprintf("%s: %s#%s = %s", c.Kind, c.Schema, c.Path, render(c.New))
	case KindFieldRemoved:
		return fmt.Sprintf("%s: %s#%s (was %s)", c.Kind, c.Schema, c.Path, render(c.Old))
	default:
		return fmt.Sprintf("%s: %s#%s %s -> %s", c.Kind, c.Schema, c.Path, render(c.Old), render(c.New))
	}
}

// SchemaDiff groups the changes of one schema file with a line patch of its
// canonical form.
type SchemaDiff struct {
	Schema  string   `json:"schema" yaml:"schema"`
	Changes []Change `json:"changes" yaml:"changes"`
	Patch   string   `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// Flatten returns the changes of all diffs in order.
func Flatten(diffs []SchemaDiff) []Change {
	var changes []Change
	for _, d := range diffs {
		changes = append(changes, d.Changes...)
	}
	return changes
}

func sortChanges(changes []Change) {
	slices.SortStableFunc(changes, func(a, b Change) int {
		if c := cmp.Compare(a.Schema, b.Schema); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	const limit = 80
	if len(b) > limit {
		return string(b[:limit-3]) + "..."
	}
	return string(b)
}
