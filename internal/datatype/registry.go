// Package datatype holds the fixed registry of semantic column types and
// their subtypes, used to validate user-declared subtypes.
//
// The registry is defined in CUE (registry.cue, embedded) so that the
// vocabulary can be reviewed without reading Go code. Category order in
// the document is preserved.
package datatype

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"
)

//go:embed registry.cue
var registrySource []byte

// Category is a semantic type and the subtypes that belong to it.
type Category struct {
	Type     string
	Subtypes []string
}

// Registry maps subtypes back to their semantic type.
type Registry struct {
	categories []Category
}

// Load compiles a CUE registry document.
//
// The document must contain a "types" struct whose fields are type names
// and whose values are lists of subtype strings.
func Load(src []byte) (*Registry, error) {
	v := cuecontext.New().CompileBytes(src)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile registry: %w", err)
	}

	types := v.LookupPath(cue.ParsePath("types"))
	if !types.Exists() {
		return nil, fmt.Errorf("registry: missing \"types\" field")
	}

	fields, err := types.Fields()
	if err != nil {
		return nil, fmt.Errorf("registry types: %w", err)
	}

	r := &Registry{}
	for fields.Next() {
		name := fields.Selector().Unquoted()

		list, err := fields.Value().List()
		if err != nil {
			return nil, fmt.Errorf("registry type %q: %w", name, err)
		}

		cat := Category{Type: norm.NFC.String(name)}
		for list.Next() {
			s, err := list.Value().String()
			if err != nil {
				return nil, fmt.Errorf("registry type %q: %w", name, err)
			}
			cat.Subtypes = append(cat.Subtypes, norm.NFC.String(s))
		}
		r.categories = append(r.categories, cat)
	}

	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in registry.
// It panics if the embedded document is invalid, which is a build defect.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Load(registrySource)
		if err != nil {
			panic(fmt.Sprintf("datatype: embedded registry: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Lookup returns the semantic type containing subtype.
// Both sides are compared in Unicode NFC form; the match is otherwise exact.
func (r *Registry) Lookup(subtype string) (string, bool) {
	want := norm.NFC.String(subtype)
	for _, c := range r.categories {
		if slices.Contains(c.Subtypes, want) {
			return c.Type, true
		}
	}
	return "", false
}

// Categories returns the registry contents in document order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = Category{Type: c.Type, Subtypes: slices.Clone(c.Subtypes)}
	}
	return out
}

// Types returns the semantic type names in document order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.categories))
	for i, c := range r.categories {
		out[i] = c.Type
	}
	return out
}
