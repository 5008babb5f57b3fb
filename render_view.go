// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import "strings"

// referenceView is the root view model passed to markdown templates.
type referenceView struct {
	Title       string
	SchemaTitle string
	Filename    string
	ListMarker  string
	Entries     []entryView
}

// entryView is one cataloged path section in markdown output.
type entryView struct {
	Path        string
	Canonical   string
	Heading     string
	Type        string
	Required    string
	Default     string
	Summary     string
	Description string
	Attributes  []attributeView
	Depth       int
	Primary     bool
}

// attributeView is a single rendered name/value metadata item.
type attributeView struct {
	Name  string
	Value string
}

// buildReferenceView prepares data for markdown template rendering.
func buildReferenceView(view *SchemaView, opt ReferenceOptions) referenceView {
	title := sanitizeText(opt.Title)
	if title == "" {
		title = defaultTitle
	}

	wrapWidth := normalizeWrapWidth(opt.WrapWidth)
	listMarker := normalizeListMarker(opt.ListMarker)

	out := referenceView{
		Title:       title,
		SchemaTitle: sanitizeText(view.Document().Title),
		Filename:    escapeInline(view.Filename()),
		ListMarker:  listMarker,
	}

	for _, node := range view.Nodes() {
		if !node.Primary && !opt.IncludeVariants {
			continue
		}

		path := node.Path.String()
		if path == "" {
			continue
		}

		description := nodeComment(node)
		out.Entries = append(out.Entries, entryView{
			Path:        escapeInline(path),
			Heading:     "`" + escapeInline(path) + "`",
			Canonical:   path,
			Type:        orNone(typeText(node)),
			Required:    yesNo(node.Required),
			Default:     defaultText(node),
			Summary:     escapeTableCell(sanitizeText(description)),
			Description: formatDescriptionMarkdown(description, wrapWidth, listMarker),
			Attributes:  nodeAttributes(node),
			Depth:       node.Depth,
			Primary:     node.Primary,
		})
	}

	return out
}

// typeText returns declared type or node kind when type is absent.
func typeText(node AnnotatedNode) string {
	if node.Type != "" {
		return node.Type
	}

	if node.Kind == NodeScalar {
		return ""
	}

	return node.Kind.String()
}

// defaultText renders declared default as inline code, or (none).
func defaultText(node AnnotatedNode) string {
	if !node.HasDefault {
		return "(none)"
	}

	return "`" + escapeTableCell(escapeInline(formatValue(node.Default))) + "`"
}

// escapeTableCell escapes pipes breaking markdown table cells.
func escapeTableCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}

// orNone renders empty metadata values as explicit (none) marker.
func orNone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "(none)"
	}

	return value
}

// normalizeWrapWidth validates wrap width and falls back to default.
func normalizeWrapWidth(value int) int {
	if value <= 0 {
		return defaultWrapWidth
	}

	return value
}
