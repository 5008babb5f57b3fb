// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"iter"
	"slices"
)

// NodeKind is the role of an emitted node in the projected document.
type NodeKind uint8

const (
	// NodeScalar is a leaf rendered as "key: value".
	NodeScalar NodeKind = iota
	// NodeObject is a mapping whose properties follow as children.
	NodeObject
	// NodeArray is a sequence whose representative element follows as child.
	NodeArray
	// NodeVariant is the root of one oneOf/anyOf alternative.
	NodeVariant
)

// String returns kind name.
func (kind NodeKind) String() string {
	switch kind {
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeVariant:
		return "variant"
	default:
		return "scalar"
	}
}

// PlaceholderReason explains why a location was not expanded.
type PlaceholderReason uint8

const (
	// PlaceholderRecursive marks a reference back into a definition being expanded.
	PlaceholderRecursive PlaceholderReason = iota + 1
	// PlaceholderUnresolved marks a reference missing from the document.
	PlaceholderUnresolved
	// PlaceholderDepth marks a location beyond the configured maximum depth.
	PlaceholderDepth
)

// Placeholder is the example value of a location the walk did not expand.
type Placeholder struct {
	Ref    string
	Reason PlaceholderReason
}

// String returns short placeholder description used in comments.
func (placeholder Placeholder) String() string {
	switch placeholder.Reason {
	case PlaceholderRecursive:
		return "recursive: " + placeholder.Ref
	case PlaceholderUnresolved:
		return "unresolved: " + placeholder.Ref
	default:
		return "max depth"
	}
}

// AnnotatedNode is one location reached by Walk.
type AnnotatedNode struct {
	// Value is the synthesized example: scalar, empty container, Placeholder,
	// or nil for containers with children.
	Value       any
	Default     any
	Path        Path
	Title       string
	Description string
	Type        string
	Ref         string
	Enum        []any
	Depth       int
	// Variant is the alternative position for NodeVariant nodes, -1 otherwise.
	Variant    int
	Kind       NodeKind
	Required   bool
	HasDefault bool
	// Primary is false for nodes only reachable under a variant discriminator;
	// they are cataloged but not projected.
	Primary bool
}

// IsPlaceholder reports whether node value is a walk placeholder.
func (node AnnotatedNode) IsPlaceholder() bool {
	_, ok := node.Value.(Placeholder)
	return ok
}

// walkFrame carries per-location walk state.
type walkFrame struct {
	path     Path
	depth    int
	variant  int
	required bool
	primary  bool
	// variantRoot marks the frame emitting a combinator alternative root.
	variantRoot bool
}

// schemaWalker is the state of one walk.
type schemaWalker struct {
	doc        *Document
	yield      func(AnnotatedNode) bool
	activeRefs map[string]int
	config     walkConfig
	stopped    bool
}

// Walk returns the depth-first pre-order sequence of annotated nodes for doc.
// The sequence is lazy, deterministic and restartable.
func Walk(doc *Document, opts ...WalkOption) iter.Seq[AnnotatedNode] {
	config := newWalkConfig(opts)

	return func(yield func(AnnotatedNode) bool) {
		if doc == nil || doc.Root == nil {
			return
		}

		walker := &schemaWalker{
			doc:        doc,
			config:     config,
			yield:      yield,
			activeRefs: make(map[string]int),
		}

		walker.walk(doc.Root, walkFrame{
			path:     RootPath(),
			variant:  -1,
			required: true,
			primary:  true,
		})
	}
}

// Nodes collects a walk into a slice.
func Nodes(doc *Document, opts ...WalkOption) []AnnotatedNode {
	return slices.Collect(Walk(doc, opts...))
}

// walk expands one schema location.
func (walker *schemaWalker) walk(schema *Schema, frame walkFrame) {
	if walker.stopped || schema == nil {
		return
	}

	if walker.config.mode == ExampleModeRequired && !frame.required {
		return
	}

	if frame.depth > walker.config.maxDepth {
		walker.emit(frame, schema, KindScalar, Placeholder{Reason: PlaceholderDepth})
		return
	}

	resolved, release, placeholder, held := walker.resolve(schema, frame.path)
	defer release()

	if placeholder != nil {
		walker.emit(frame, schema, KindScalar, *placeholder)
		return
	}

	if len(resolved.AllOf) > 0 {
		merged, releaseMerged, entered := walker.mergeAllOf(resolved, frame.path, held)
		defer releaseMerged()

		resolved, held = merged, append(held, entered...)
	}

	shape, releaseShape, placeholder, entered := walker.primaryShape(resolved, frame.path, held)
	defer releaseShape()

	held = append(held, entered...)

	switch {
	case placeholder != nil:
		unexpanded := *resolved
		unexpanded.Ref = placeholder.Ref
		walker.emit(frame, &unexpanded, KindScalar, *placeholder)
	case shape.Kind() == KindObject:
		walker.walkObject(shape, frame, held)
	case shape.Kind() == KindArray:
		walker.walkArray(shape, frame)
	default:
		walker.emit(frame, shape, KindScalar, exampleValue(shape))
	}

	walker.walkVariants(resolved, frame)
}

// walkObject emits object node and recurses into properties in declaration order.
// References held for this location stay active only for properties they supplied.
func (walker *schemaWalker) walkObject(schema *Schema, frame walkFrame, held []string) {
	if len(schema.Properties) == 0 {
		if !frame.path.IsRoot() {
			walker.emit(frame, schema, KindObject, containerValue(schema, MapSlice{}))
		}

		return
	}

	if !frame.path.IsRoot() {
		walker.emit(frame, schema, KindObject, nil)
	}

	for _, prop := range schema.Properties {
		resume := walker.suspendReferences(outsideOrigin(held, prop.origin))
		walker.walk(prop.Schema, walker.childFrame(frame, frame.path.Key(prop.Name), schema.IsRequired(prop.Name)))
		resume()
	}
}

// walkArray emits array node and recurses into one representative element.
func (walker *schemaWalker) walkArray(schema *Schema, frame walkFrame) {
	if schema.Items == nil && len(schema.ItemsTuple) == 0 {
		if !frame.path.IsRoot() {
			walker.emit(frame, schema, KindArray, containerValue(schema, []any{}))
		}

		return
	}

	if !frame.path.IsRoot() {
		walker.emit(frame, schema, KindArray, nil)
	}

	if schema.Items != nil && len(schema.ItemsTuple) == 0 {
		walker.walk(schema.Items, walker.childFrame(frame, frame.path.Index(0), true))
		return
	}

	for index, item := range schema.ItemsTuple {
		walker.walk(item, walker.childFrame(frame, frame.path.Index(index), true))
	}
}

// primaryShape lays the first oneOf/anyOf alternative over schema as the
// projected value, repeating while the result still declares alternatives.
// Keywords of schema win over the alternative's.
func (walker *schemaWalker) primaryShape(schema *Schema, path Path, held []string) (*Schema, func(), *Placeholder, []string) {
	releases := make([]func(), 0, 1)
	release := func() {
		for index := len(releases) - 1; index >= 0; index-- {
			releases[index]()
		}
	}

	var entered []string
	shape := schema
	for {
		alternatives := shape.OneOf
		if len(alternatives) == 0 {
			alternatives = shape.AnyOf
		}

		if len(alternatives) == 0 {
			return shape, release, nil, entered
		}

		base := *shape
		base.OneOf, base.AnyOf = nil, nil

		alternative, leave, placeholder, refs := walker.resolve(alternatives[0], path)
		releases = append(releases, leave)
		if placeholder != nil {
			return &base, release, placeholder, entered
		}

		entered = append(entered, refs...)
		if len(alternative.AllOf) > 0 {
			merged, leaveMerged, mergedRefs := walker.mergeAllOf(alternative, path, slices.Concat(held, entered))
			releases = append(releases, leaveMerged)
			entered = append(entered, mergedRefs...)
			alternative = merged
		}

		base.Properties = mergeProperties(scopeProperties(alternative.Properties, slices.Concat(held, entered)), base.Properties)
		base.Required = mergeRequiredKeys(base.Required, alternative.Required)
		inheritAnnotations(&base, alternative)
		if base.Type == "" && len(base.Properties) > 0 {
			base.Type = "object"
		}

		shape = &base
	}
}

// walkVariants walks every oneOf/anyOf alternative under path.<keyword>[i].
func (walker *schemaWalker) walkVariants(schema *Schema, frame walkFrame) {
	for _, group := range []struct {
		keyword string
		items   []*Schema
	}{
		{keyword: "oneOf", items: schema.OneOf},
		{keyword: "anyOf", items: schema.AnyOf},
	} {
		for index, alternative := range group.items {
			if walker.stopped {
				return
			}

			walker.walk(alternative, walkFrame{
				path:        frame.path.Variant(group.keyword, index),
				depth:       frame.depth,
				variant:     index,
				required:    frame.required,
				primary:     false,
				variantRoot: true,
			})
		}
	}
}

// childFrame builds frame for a nested location.
func (walker *schemaWalker) childFrame(parent walkFrame, path Path, required bool) walkFrame {
	depth := parent.depth + 1
	if parent.path.IsRoot() {
		depth = parent.depth
	}

	return walkFrame{
		path:     path,
		depth:    depth,
		variant:  -1,
		required: required,
		primary:  parent.primary,
	}
}

// emit yields one node and records stop request.
func (walker *schemaWalker) emit(frame walkFrame, schema *Schema, shape SchemaKind, value any) {
	if walker.stopped {
		return
	}

	kind := NodeScalar
	switch {
	case frame.variantRoot:
		kind = NodeVariant
	case shape == KindObject:
		kind = NodeObject
	case shape == KindArray:
		kind = NodeArray
	}

	node := AnnotatedNode{
		Path:        frame.path,
		Depth:       frame.depth,
		Kind:        kind,
		Title:       schema.Title,
		Description: schema.Description,
		Type:        schema.Type,
		Ref:         schema.Ref,
		Enum:        schema.Enum,
		Default:     schema.Default,
		HasDefault:  schema.HasDefault,
		Required:    frame.required && !frame.path.IsRoot() && isKeyPath(frame.path),
		Value:       value,
		Variant:     frame.variant,
		Primary:     frame.primary,
	}

	if !walker.yield(node) {
		walker.stopped = true
	}
}

// isKeyPath reports whether path ends with a property step.
func isKeyPath(path Path) bool {
	last, ok := path.Last()
	return ok && last.Kind == StepKey
}

// resolve follows $ref chains, applying sibling keyword overrides.
// It returns a placeholder instead of a schema when the chain cannot be expanded,
// and the references it entered otherwise.
func (walker *schemaWalker) resolve(schema *Schema, path Path) (*Schema, func(), *Placeholder, []string) {
	releases := make([]func(), 0, 1)
	release := func() {
		for index := len(releases) - 1; index >= 0; index-- {
			releases[index]()
		}
	}

	var entered []string
	current := schema
	for current.Ref != "" {
		ref := current.Ref
		target, ok := walker.doc.Resolve(ref)
		if !ok {
			walker.report(&ReferenceIssue{Path: path.String(), Ref: ref})
			return nil, release, &Placeholder{Reason: PlaceholderUnresolved, Ref: ref}, nil
		}

		leave, ok := walker.enterReference(ref)
		if !ok {
			walker.report(&ReferenceIssue{Path: path.String(), Ref: ref, Cyclic: true})
			return nil, release, &Placeholder{Reason: PlaceholderRecursive, Ref: ref}, nil
		}

		releases = append(releases, leave)
		entered = append(entered, ref)
		current = overlaySchema(target, current, entered)
	}

	return current, release, nil, entered
}

// suspendReferences deactivates refs until the returned callback runs.
func (walker *schemaWalker) suspendReferences(refs []string) func() {
	if len(refs) == 0 {
		return func() {}
	}

	saved := make(map[string]int, len(refs))
	for _, ref := range refs {
		if count, ok := walker.activeRefs[ref]; ok {
			saved[ref] = count
			delete(walker.activeRefs, ref)
		}
	}

	return func() {
		for ref, count := range saved {
			walker.activeRefs[ref] = count
		}
	}
}

// outsideOrigin returns held refs that did not supply a property.
func outsideOrigin(held, origin []string) []string {
	var out []string
	for _, ref := range held {
		if !slices.Contains(origin, ref) {
			out = append(out, ref)
		}
	}

	return out
}

// scopeProperties marks properties as supplied through refs.
func scopeProperties(props []Property, refs []string) []Property {
	if len(refs) == 0 {
		return props
	}

	out := make([]Property, 0, len(props))
	for _, prop := range props {
		prop.origin = mergeRequiredKeys(prop.origin, refs)
		out = append(out, prop)
	}

	return out
}

// enterReference registers active ref and returns release callback.
func (walker *schemaWalker) enterReference(ref string) (func(), bool) {
	if walker.activeRefs[ref] > 0 {
		return nil, false
	}

	walker.activeRefs[ref]++
	walker.config.logger.Debugf("enter reference %s", ref)

	return func() {
		walker.activeRefs[ref]--
		if walker.activeRefs[ref] <= 0 {
			delete(walker.activeRefs, ref)
		}
	}, true
}

// report forwards recoverable reference issue to handler and logger.
func (walker *schemaWalker) report(issue *ReferenceIssue) {
	if issue.Cyclic {
		walker.config.logger.Debugf("%v", issue)
	} else {
		walker.config.logger.Warnf("%v", issue)
	}

	if walker.config.onIssue != nil {
		walker.config.onIssue(issue)
	}
}

// mergeAllOf synthesizes one schema from node and its allOf alternatives.
// Local keywords win; among alternatives later property declarations override earlier.
// Properties taken from alternatives are scoped to base and the refs entered for them.
func (walker *schemaWalker) mergeAllOf(schema *Schema, path Path, base []string) (*Schema, func(), []string) {
	releases := make([]func(), 0, len(schema.AllOf))
	release := func() {
		for index := len(releases) - 1; index >= 0; index-- {
			releases[index]()
		}
	}

	merged := *schema
	merged.AllOf = nil
	merged.Properties = nil
	merged.Required = slices.Clone(schema.Required)

	var entered []string
	var inherited []Property
	for _, alternative := range schema.AllOf {
		resolved, leave, placeholder, refs := walker.resolve(alternative, path)
		releases = append(releases, leave)
		if placeholder != nil {
			continue
		}

		entered = append(entered, refs...)
		scope := slices.Concat(base, refs)
		if len(resolved.AllOf) > 0 {
			nested, leaveNested, nestedRefs := walker.mergeAllOf(resolved, path, scope)
			releases = append(releases, leaveNested)
			entered = append(entered, nestedRefs...)
			scope = append(scope, nestedRefs...)
			resolved = nested
		}

		inherited = mergeProperties(inherited, scopeProperties(resolved.Properties, scope))
		merged.Required = mergeRequiredKeys(merged.Required, resolved.Required)
		inheritAnnotations(&merged, resolved)
	}

	merged.Properties = mergeProperties(inherited, schema.Properties)
	if merged.Type == "" && len(merged.Properties) > 0 {
		merged.Type = "object"
	}

	return &merged, release, entered
}

// inheritAnnotations fills keywords missing on target from source.
func inheritAnnotations(target, source *Schema) {
	if target.Type == "" {
		target.Type = source.Type
	}

	if target.Title == "" {
		target.Title = source.Title
	}

	if target.Description == "" {
		target.Description = source.Description
	}

	if !target.HasDefault && source.HasDefault {
		target.Default, target.HasDefault = source.Default, true
	}

	if !target.HasConst && source.HasConst {
		target.Const, target.HasConst = source.Const, true
	}

	if len(target.Enum) == 0 {
		target.Enum = source.Enum
	}

	if len(target.Examples) == 0 {
		target.Examples = source.Examples
	}

	if target.Items == nil && len(target.ItemsTuple) == 0 {
		target.Items, target.ItemsTuple = source.Items, source.ItemsTuple
	}

	if len(target.OneOf) == 0 {
		target.OneOf = source.OneOf
	}

	if len(target.AnyOf) == 0 {
		target.AnyOf = source.AnyOf
	}
}

// mergeProperties overlays right properties onto left, keeping first-seen positions.
func mergeProperties(left, right []Property) []Property {
	out := slices.Clone(left)
	for _, prop := range right {
		index := slices.IndexFunc(out, func(existing Property) bool {
			return existing.Name == prop.Name
		})
		if index >= 0 {
			out[index] = prop
			continue
		}

		out = append(out, prop)
	}

	return out
}

// mergeRequiredKeys appends unique required keys while preserving first-seen order.
func mergeRequiredKeys(left, right []string) []string {
	out := slices.Clone(left)
	for _, key := range right {
		if slices.Contains(out, key) {
			continue
		}

		out = append(out, key)
	}

	return out
}

// overlaySchema copies target and applies keywords declared next to a $ref.
// Target properties are scoped to the refs entered to reach them.
func overlaySchema(target, overlay *Schema, entered []string) *Schema {
	out := *target
	applyAnnotations(&out, overlay)

	if overlay.Type != "" {
		out.Type = overlay.Type
	}

	out.Properties = mergeProperties(scopeProperties(target.Properties, entered), overlay.Properties)

	if len(overlay.Required) > 0 {
		out.Required = mergeRequiredKeys(target.Required, overlay.Required)
	}

	if overlay.Items != nil || len(overlay.ItemsTuple) > 0 {
		out.Items, out.ItemsTuple = overlay.Items, overlay.ItemsTuple
	}

	if len(overlay.AllOf) > 0 {
		out.AllOf = append(slices.Clone(target.AllOf), overlay.AllOf...)
	}

	return &out
}

// applyAnnotations overrides descriptive keywords on target with ones set on source.
func applyAnnotations(target, source *Schema) {
	if source.Title != "" {
		target.Title = source.Title
	}

	if source.Description != "" {
		target.Description = source.Description
	}

	if source.HasDefault {
		target.Default, target.HasDefault = source.Default, true
	}

	if source.HasConst {
		target.Const, target.HasConst = source.Const, true
	}

	if len(source.Enum) > 0 {
		target.Enum = source.Enum
	}

	if len(source.Examples) > 0 {
		target.Examples = source.Examples
	}
}

// exampleScalarPlaceholders provides fallback values for scalar schema types.
var exampleScalarPlaceholders = map[string]any{
	"string":  "",
	"number":  int64(0),
	"integer": int64(0),
	"boolean": false,
	"null":    nil,
	"object":  MapSlice{},
	"array":   []any{},
}

// exampleValue picks default, then first enum/examples entry, then const,
// then a type sentinel. Untyped nodes fall back to an empty string.
func exampleValue(schema *Schema) any {
	if schema.HasDefault {
		return schema.Default
	}

	if len(schema.Enum) > 0 {
		return schema.Enum[0]
	}

	if len(schema.Examples) > 0 {
		return schema.Examples[0]
	}

	if schema.HasConst {
		return schema.Const
	}

	if value, ok := exampleScalarPlaceholders[schema.Type]; ok {
		return value
	}

	return ""
}

// containerValue returns explicit example for childless container or its empty sentinel.
func containerValue(schema *Schema, empty any) any {
	if schema.HasDefault || len(schema.Enum) > 0 || len(schema.Examples) > 0 || schema.HasConst {
		return exampleValue(schema)
	}

	return empty
}
