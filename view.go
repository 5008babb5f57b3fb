// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"slices"
	"strings"
)

// ViewState is the projection lifecycle of a SchemaView.
type ViewState uint8

const (
	// StateUnloaded means no schema was set yet.
	StateUnloaded ViewState = iota
	// StateProjecting is observable only from walk loggers running during SetSchema.
	StateProjecting
	// StateReady means text and catalog match the current schema.
	StateReady
)

// SelectionSource names the collaborator that produced a selection.
type SelectionSource uint8

const (
	// SourceSearch is the path search box.
	SourceSearch SelectionSource = iota + 1
	// SourceTree is the tree renderer (manual expand/collapse).
	SourceTree
	// SourceSchema is the view itself clearing selection on schema change.
	SourceSchema
)

// PathSelected is the message both collaborators send to change the active path.
// Clear selects no path.
type PathSelected struct {
	Path   Path
	Source SelectionSource
	Clear  bool
}

// ActivePathChange is delivered to subscribers after the active path was replaced.
type ActivePathChange struct {
	Path   Path
	Source SelectionSource
	Active bool
}

// TreeNode is one row handed to the tree renderer.
type TreeNode struct {
	Node     AnnotatedNode
	Path     string
	Depth    int
	Required bool
	// Active is true for the node at the active path.
	Active bool
	// Expanded is true for ancestors of the active path and the active node itself.
	Expanded bool
}

// SchemaView coordinates one schema projection with the shared active path.
// It is driven from a single event loop and holds no locks.
type SchemaView struct {
	doc            *Document
	catalog        *Catalog
	walkOptions    []WalkOption
	nodes          []AnnotatedNode
	issues         []error
	subscribers    []func(ActivePathChange)
	projection     Projection
	normalizedName string
	active         Path
	state          ViewState
	hasActive      bool
}

// ViewOption configures SchemaView.
type ViewOption func(*SchemaView)

// WithWalkOptions forwards walk options used for every projection.
func WithWalkOptions(opts ...WalkOption) ViewOption {
	return func(view *SchemaView) {
		view.walkOptions = append(view.walkOptions, opts...)
	}
}

// NewSchemaView creates an unloaded view.
func NewSchemaView(opts ...ViewOption) *SchemaView {
	view := &SchemaView{}
	for _, opt := range opts {
		if opt != nil {
			opt(view)
		}
	}

	return view
}

// Load parses schema and optional standalone definitions and sets them as current.
func (view *SchemaView) Load(schemaBytes []byte, normalizedName string, definitionBytes []byte) error {
	doc, err := ParseDocumentWithDefinitions(schemaBytes, definitionBytes)
	if err != nil {
		return err
	}

	view.SetSchema(doc, normalizedName)
	return nil
}

// SetSchema replaces the current schema. A different *Document always re-walks,
// even when structurally identical; the same pointer is a no-op.
// Re-projection clears the active path.
func (view *SchemaView) SetSchema(doc *Document, normalizedName string) {
	normalizedName = strings.TrimSpace(normalizedName)
	if doc == view.doc && view.state == StateReady {
		view.normalizedName = normalizedName
		return
	}

	view.state = StateProjecting
	issues := make([]error, 0)
	opts := append(slices.Clone(view.walkOptions), WithIssueHandler(func(err error) {
		issues = append(issues, err)
	}))

	nodes := Nodes(doc, opts...)
	view.doc = doc
	view.normalizedName = normalizedName
	view.nodes = nodes
	view.issues = issues
	view.projection = ProjectDocument(slices.Values(nodes))
	view.catalog = BuildCatalog(slices.Values(nodes))
	view.state = StateReady

	hadActive := view.hasActive
	view.active, view.hasActive = Path{}, false
	if hadActive {
		view.notify(ActivePathChange{Source: SourceSchema})
	}
}

// Dispatch applies one selection message, replacing the active path wholesale.
func (view *SchemaView) Dispatch(event PathSelected) {
	if event.Clear {
		view.active, view.hasActive = Path{}, false
	} else {
		view.active, view.hasActive = event.Path, true
	}

	view.notify(ActivePathChange{
		Path:   view.active,
		Active: view.hasActive,
		Source: event.Source,
	})
}

// Subscribe registers reader notified after each active path replacement.
func (view *SchemaView) Subscribe(fn func(ActivePathChange)) {
	if fn == nil {
		return
	}

	view.subscribers = append(view.subscribers, fn)
}

// notify delivers change to subscribers in registration order.
func (view *SchemaView) notify(change ActivePathChange) {
	for _, fn := range view.subscribers {
		fn(change)
	}
}

// State returns projection lifecycle state.
func (view *SchemaView) State() ViewState {
	return view.state
}

// Document returns current schema document.
func (view *SchemaView) Document() *Document {
	return view.doc
}

// ActivePath returns the current selection.
func (view *SchemaView) ActivePath() (Path, bool) {
	return view.active, view.hasActive
}

// Text returns projected YAML text.
func (view *SchemaView) Text() string {
	return view.projection.Text
}

// Projection returns projected text with its line index.
func (view *SchemaView) Projection() Projection {
	return view.projection
}

// Catalog returns path catalog of current schema.
func (view *SchemaView) Catalog() *Catalog {
	return view.catalog
}

// Nodes returns a copy of walked nodes.
func (view *SchemaView) Nodes() []AnnotatedNode {
	return slices.Clone(view.nodes)
}

// Issues returns reference issues recorded by the last projection.
func (view *SchemaView) Issues() []error {
	return slices.Clone(view.issues)
}

// Search delegates to catalog search.
func (view *SchemaView) Search(query string) []Path {
	return view.catalog.Search(query)
}

// Filename returns download file name for projected text.
func (view *SchemaView) Filename() string {
	name := view.normalizedName
	if name == "" {
		name = "chart"
	}

	return "values-" + name + ".yaml"
}

// TitleLine returns "# <title>" when root schema declares a title.
func (view *SchemaView) TitleLine() string {
	if view.doc == nil || view.doc.Title == "" {
		return ""
	}

	return "# " + sanitizeText(view.doc.Title)
}

// TreeNodes returns primary nodes prepared for the tree renderer.
func (view *SchemaView) TreeNodes() []TreeNode {
	out := make([]TreeNode, 0, len(view.nodes))
	for _, node := range view.nodes {
		if !node.Primary {
			continue
		}

		out = append(out, view.treeNode(node))
	}

	return out
}

// treeNode decorates node with active path state.
func (view *SchemaView) treeNode(node AnnotatedNode) TreeNode {
	row := TreeNode{
		Node:     node,
		Path:     node.Path.String(),
		Depth:    node.Depth,
		Required: node.Required,
	}

	if !view.hasActive {
		return row
	}

	active := view.active.WithoutVariants()
	row.Active = node.Path.Equal(active)
	row.Expanded = active.HasPrefix(node.Path)
	return row
}

// Highlight returns projected line of the active path. Variant paths map to
// the nearest location present in the primary projection.
func (view *SchemaView) Highlight() (int, bool) {
	if !view.hasActive {
		return 0, false
	}

	path := view.active.WithoutVariants()
	for {
		if line, ok := view.projection.Line(path); ok {
			return line, true
		}

		if path.IsRoot() {
			return 0, false
		}

		path = path.Parent()
	}
}

// sanitizeText trims and squashes repeated whitespace in plain text fields.
func sanitizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
