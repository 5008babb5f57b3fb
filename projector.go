// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// projectionIndent is the number of spaces per nesting level.
const projectionIndent = 2

// Projection is the annotated YAML example with a path-to-line index.
type Projection struct {
	// Lines maps canonical path to the 1-based line holding its key.
	Lines map[string]int
	Text  string
}

// Line returns 1-based line of path in projected text.
func (projection Projection) Line(path Path) (int, bool) {
	line, ok := projection.Lines[path.String()]
	return line, ok
}

// projector accumulates projected lines.
type projector struct {
	lines        map[string]int
	dashPaths    []string
	out          []string
	pendingDash  int
	pendingDepth int
}

// Project renders primary nodes of a walk as annotated YAML text.
func Project(nodes iter.Seq[AnnotatedNode]) string {
	return ProjectDocument(nodes).Text
}

// ProjectDocument renders primary nodes of a walk and indexes their lines.
// Nodes are consumed once with one node of lookahead to detect children.
func ProjectDocument(nodes iter.Seq[AnnotatedNode]) Projection {
	state := projector{lines: make(map[string]int)}

	var pending AnnotatedNode
	hasPending := false
	for node := range nodes {
		if !node.Primary {
			continue
		}

		if hasPending {
			state.write(pending, node.Depth > pending.Depth)
		}

		pending, hasPending = node, true
	}

	if hasPending {
		state.write(pending, false)
	}

	text := strings.Join(state.out, "\n")
	if text != "" {
		text += "\n"
	}

	return Projection{Text: text, Lines: state.lines}
}

// write renders one node. hasChildren tells whether following nodes nest under it.
func (state *projector) write(node AnnotatedNode, hasChildren bool) {
	isContainer := node.Value == nil && (node.Kind == NodeObject || node.Kind == NodeArray || node.Kind == NodeVariant)
	expand := isContainer && hasChildren

	commentIndent := node.Depth
	if state.pendingDash > 0 {
		commentIndent = state.pendingDepth
	}

	for _, line := range strings.Split(nodeComment(node), "\n") {
		if line == "" {
			continue
		}

		state.out = append(state.out, indentation(commentIndent)+"# "+line)
	}

	value := formatValue(node.Value)
	if isContainer && !hasChildren {
		value = emptyContainerText(node)
	}

	last, hasStep := node.Path.Last()
	var content string
	switch {
	case !hasStep:
		content = value
	case last.Kind == StepIndex:
		if expand {
			if state.pendingDash == 0 {
				state.pendingDepth = node.Depth
			}

			state.pendingDash++
			state.dashPaths = append(state.dashPaths, node.Path.String())
			return
		}

		content = "- " + value
	default:
		content = quoteYAMLKey(last.Key) + ":"
		if !expand {
			content += " " + value
		}
	}

	if markers := nodeMarkers(node); len(markers) > 0 {
		content += "  # " + strings.Join(markers, "; ")
	}

	line := indentation(node.Depth) + content
	if state.pendingDash > 0 {
		line = indentation(state.pendingDepth) + strings.Repeat("- ", state.pendingDash) + content
	}

	state.out = append(state.out, line)
	lineNumber := len(state.out)
	state.lines[node.Path.String()] = lineNumber

	for _, path := range state.dashPaths {
		state.lines[path] = lineNumber
	}

	state.dashPaths = state.dashPaths[:0]
	state.pendingDash = 0
}

// indentation returns leading spaces for nesting depth.
func indentation(depth int) string {
	if depth <= 0 {
		return ""
	}

	return strings.Repeat(" ", depth*projectionIndent)
}

// emptyContainerText renders childless container value.
func emptyContainerText(node AnnotatedNode) string {
	if node.Kind == NodeArray || node.Type == "array" {
		return "[]"
	}

	return "{}"
}

// nodeMarkers returns inline trailing comment parts for node line.
func nodeMarkers(node AnnotatedNode) []string {
	markers := make([]string, 0, 2)
	if placeholder, ok := node.Value.(Placeholder); ok {
		markers = append(markers, placeholder.String())
	}

	if node.Required {
		markers = append(markers, "required")
	}

	return markers
}

// nodeComment builds comment body from node title and description.
func nodeComment(node AnnotatedNode) string {
	title := strings.TrimSpace(node.Title)
	description := strings.TrimSpace(node.Description)

	switch {
	case title == "" && description == "":
		return ""
	case title == "":
		return normalizeYAMLComment(description)
	case description == "" || title == description:
		return normalizeYAMLComment(title)
	default:
		return normalizeYAMLComment(title + "\n" + description)
	}
}

// normalizeYAMLComment drops blank lines and trailing spaces from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(normalizeLineEndings(comment), "\n")
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}

		normalized = append(normalized, line)
	}

	return strings.Join(normalized, "\n")
}

// normalizeLineEndings converts CRLF/CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// plainYAMLKey matches keys safe to emit without quotes.
var plainYAMLKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_./-]*$`)

// reservedYAMLWords would be resolved to non-string scalars when left plain.
var reservedYAMLWords = map[string]struct{}{
	"true": {}, "false": {}, "yes": {}, "no": {}, "on": {}, "off": {},
	"null": {}, "y": {}, "n": {},
}

// quoteYAMLKey quotes mapping keys that are not plain identifiers.
func quoteYAMLKey(key string) string {
	if plainYAMLKey.MatchString(key) {
		if _, reserved := reservedYAMLWords[strings.ToLower(key)]; !reserved {
			return key
		}
	}

	return quoteYAMLString(key)
}

// quoteYAMLString renders double-quoted scalar. JSON string escapes are valid YAML.
func quoteYAMLString(value string) string {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return strconv.Quote(value)
	}

	return strings.TrimRight(out.String(), "\n")
}

// formatValue renders example value as single-line YAML flow text.
func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(typed)
	case string:
		return quoteYAMLString(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64)
	case Placeholder:
		return "{}"
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, formatValue(item))
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case MapSlice:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, quoteYAMLKey(item.Key)+": "+formatValue(item.Value))
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return quoteYAMLString(fmt.Sprint(typed))
	}
}
