// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// normalizeListMarker validates list marker and falls back to default.
func normalizeListMarker(value string) string {
	switch value = strings.TrimSpace(value); value {
	case "*", "-":
		return value
	default:
		return defaultListMarker
	}
}

// formatDescriptionMarkdown wraps plain paragraphs of a schema description.
// Fenced blocks, list items and other markdown structures pass through.
func formatDescriptionMarkdown(text string, wrapWidth int, listMarker string) string {
	text = strings.TrimSpace(normalizeLineEndings(text))
	if text == "" {
		return ""
	}

	listMarker = normalizeListMarker(listMarker)
	out := make([]string, 0, 8)
	paragraph := make([]string, 0, 4)
	inFence := false

	flush := func() {
		if len(paragraph) == 0 {
			return
		}

		out = append(out, wrapParagraph(strings.Join(paragraph, " "), wrapWidth)...)
		paragraph = paragraph[:0]
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flush()
			out = append(out, line)
			inFence = !inFence
		case inFence:
			out = append(out, line)
		case trimmed == "":
			flush()
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
		case isListItem(trimmed):
			flush()
			if len(out) > 0 && out[len(out)-1] != "" && !isListItem(strings.TrimSpace(out[len(out)-1])) {
				out = append(out, "")
			}

			out = append(out, strings.Repeat("  ", leadingIndent(line)/2)+listMarker+" "+strings.TrimSpace(trimmed[1:]))
		case isMarkdownStructure(line):
			flush()
			out = append(out, line)
		default:
			paragraph = append(paragraph, trimmed)
		}
	}

	flush()
	return strings.Join(out, "\n")
}

// isListItem reports whether trimmed line is an unordered list item.
func isListItem(trimmed string) bool {
	if len(trimmed) < 2 {
		return false
	}

	switch trimmed[0] {
	case '-', '*', '+':
		return trimmed[1] == ' ' || trimmed[1] == '\t'
	default:
		return false
	}
}

// isMarkdownStructure reports whether line must bypass paragraph wrapping.
func isMarkdownStructure(line string) bool {
	if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
		return true
	}

	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"#", ">", "|", "---", "***", "___"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}

	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}

	return digits > 0 && digits+1 < len(trimmed) &&
		(trimmed[digits] == '.' || trimmed[digits] == ')') && trimmed[digits+1] == ' '
}

// leadingIndent returns visual width of leading spaces and tabs.
func leadingIndent(line string) int {
	columns := 0
	for _, r := range line {
		switch r {
		case ' ':
			columns++
		case '\t':
			columns += 4
		default:
			return columns
		}
	}

	return columns
}

// wrapParagraph wraps one plain paragraph to max display width in terminal columns.
func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	out := make([]string, 0, 2)
	current := words[0]
	currentLen := runewidth.StringWidth(current)

	for _, word := range words[1:] {
		wordLen := runewidth.StringWidth(word)
		if currentLen+1+wordLen <= width {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}

		out = append(out, current)
		current, currentLen = word, wordLen
	}

	return append(out, current)
}
