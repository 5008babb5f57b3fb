// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// nodeAttributes renders flat attribute list for one walked node.
func nodeAttributes(node AnnotatedNode) []attributeView {
	out := make([]attributeView, 0, 8)

	if typeName := typeText(node); typeName != "" {
		out = append(out, attributeView{Name: "Type", Value: fmt.Sprintf("`%s`", escapeInline(typeName))})
	}

	out = append(out, attributeView{Name: "Required", Value: yesNo(node.Required)})

	if node.HasDefault {
		out = append(out, attributeView{Name: "Default", Value: fmt.Sprintf("`%s`", escapeInline(formatValue(node.Default)))})
	}

	if len(node.Enum) > 0 {
		out = append(out, attributeView{Name: "Enum", Value: valueList(node.Enum)})
	}

	if !node.HasDefault && node.Value != nil {
		if _, placeholder := node.Value.(Placeholder); !placeholder && node.Kind == NodeScalar {
			out = append(out, attributeView{Name: "Example", Value: fmt.Sprintf("`%s`", escapeInline(formatValue(node.Value)))})
		}
	}

	if placeholder, ok := node.Value.(Placeholder); ok {
		out = append(out, attributeView{Name: "Not expanded", Value: escapeInline(placeholder.String())})
	}

	if node.Ref != "" {
		out = append(out, attributeView{Name: "Reference", Value: fmt.Sprintf("`%s`", escapeInline(node.Ref))})
	}

	if node.Kind == NodeVariant {
		out = append(out, attributeView{Name: "Variant", Value: strconv.Itoa(node.Variant)})
	}

	if node.Title != "" {
		out = append(out, attributeView{Name: "Title", Value: escapeInline(sanitizeText(node.Title))})
	}

	return out
}

// yesNo renders bool as "yes" or "no".
func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

// valueList renders values into comma-separated inline code tokens.
func valueList(values []any) string {
	parts := make([]string, 0, len(values))
	for _, item := range values {
		parts = append(parts, fmt.Sprintf("`%s`", escapeInline(formatValue(item))))
	}

	return strings.Join(parts, ", ")
}
