// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"fmt"
	"iter"
	"strings"

	"github.com/expr-lang/expr"
	"golang.org/x/text/cases"
)

// CatalogEntry is one addressable location with the node facts search and
// filters need.
type CatalogEntry struct {
	Path        Path
	Canonical   string
	Title       string
	Description string
	Type        string
	Depth       int
	Kind        NodeKind
	Required    bool
	Primary     bool
}

// Catalog is the ordered list of paths produced by one walk.
// It is rebuilt per schema and never patched.
type Catalog struct {
	index   map[string]int
	entries []CatalogEntry
	folded  []string
}

// BuildCatalog indexes every node of a walk, primary or not, in walk order.
// Entries map one-to-one to nodes; Lookup resolves a canonical path to its first entry.
func BuildCatalog(nodes iter.Seq[AnnotatedNode]) *Catalog {
	folder := cases.Fold()
	catalog := &Catalog{index: make(map[string]int)}

	for node := range nodes {
		canonical := node.Path.String()
		if _, exists := catalog.index[canonical]; !exists {
			catalog.index[canonical] = len(catalog.entries)
		}

		catalog.entries = append(catalog.entries, CatalogEntry{
			Path:        node.Path,
			Canonical:   canonical,
			Title:       node.Title,
			Description: node.Description,
			Type:        node.Type,
			Depth:       node.Depth,
			Kind:        node.Kind,
			Required:    node.Required,
			Primary:     node.Primary,
		})
		catalog.folded = append(catalog.folded, folder.String(canonical))
	}

	return catalog
}

// Len returns number of cataloged paths.
func (catalog *Catalog) Len() int {
	if catalog == nil {
		return 0
	}

	return len(catalog.entries)
}

// Entries returns a copy of catalog entries in walk order.
func (catalog *Catalog) Entries() []CatalogEntry {
	if catalog == nil {
		return nil
	}

	out := make([]CatalogEntry, len(catalog.entries))
	copy(out, catalog.entries)
	return out
}

// Paths returns all paths in walk order.
func (catalog *Catalog) Paths() []Path {
	if catalog == nil {
		return nil
	}

	out := make([]Path, 0, len(catalog.entries))
	for _, entry := range catalog.entries {
		out = append(out, entry.Path)
	}

	return out
}

// Strings returns canonical path strings in walk order.
func (catalog *Catalog) Strings() []string {
	if catalog == nil {
		return nil
	}

	out := make([]string, 0, len(catalog.entries))
	for _, entry := range catalog.entries {
		out = append(out, entry.Canonical)
	}

	return out
}

// Lookup finds entry by canonical path string.
func (catalog *Catalog) Lookup(canonical string) (CatalogEntry, bool) {
	if catalog == nil {
		return CatalogEntry{}, false
	}

	index, ok := catalog.index[canonical]
	if !ok {
		return CatalogEntry{}, false
	}

	return catalog.entries[index], true
}

// Contains reports whether path is cataloged.
func (catalog *Catalog) Contains(path Path) bool {
	_, ok := catalog.Lookup(path.String())
	return ok
}

// Search returns paths whose canonical form contains query, ignoring case,
// in catalog order. Empty query returns the whole catalog.
func (catalog *Catalog) Search(query string) []Path {
	if catalog == nil {
		return nil
	}

	if query == "" {
		return catalog.Paths()
	}

	folded := cases.Fold().String(query)
	out := make([]Path, 0)
	for index, candidate := range catalog.folded {
		if strings.Contains(candidate, folded) {
			out = append(out, catalog.entries[index].Path)
		}
	}

	return out
}

// filterEnv is the variable set visible to filter expressions.
type filterEnv struct {
	Path        string `expr:"path"`
	Kind        string `expr:"kind"`
	Type        string `expr:"type"`
	Title       string `expr:"title"`
	Description string `expr:"description"`
	Depth       int    `expr:"depth"`
	Required    bool   `expr:"required"`
	Primary     bool   `expr:"primary"`
}

// Filter returns entries matching a boolean expr-lang predicate, e.g.
// `required && depth < 2` or `path startsWith "service."`.
func (catalog *Catalog) Filter(expression string) ([]CatalogEntry, error) {
	if catalog == nil {
		return nil, nil
	}

	if strings.TrimSpace(expression) == "" {
		return catalog.Entries(), nil
	}

	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilterExpression, err)
	}

	out := make([]CatalogEntry, 0)
	for _, entry := range catalog.entries {
		result, err := expr.Run(program, filterEnv{
			Path:        entry.Canonical,
			Kind:        entry.Kind.String(),
			Type:        entry.Type,
			Title:       entry.Title,
			Description: entry.Description,
			Depth:       entry.Depth,
			Required:    entry.Required,
			Primary:     entry.Primary,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFilterExpression, entry.Canonical, err)
		}

		if matched, ok := result.(bool); ok && matched {
			out = append(out, entry)
		}
	}

	return out, nil
}
