// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

// templateFS stores built-in markdown templates embedded into the package.
//
//go:embed templates/*.md.gotmpl
var templateFS embed.FS

// builtInTemplateFiles maps template aliases to embedded file paths.
var builtInTemplateFiles = map[string]string{
	templateListName:  "templates/list.md.gotmpl",
	templateTableName: "templates/table.md.gotmpl",
}

// resolveTemplate parses custom template text, or the built-in template selected by name.
func resolveTemplate(opt ReferenceOptions) (*template.Template, error) {
	if text := strings.TrimSpace(opt.TemplateText); text != "" {
		return template.New("custom").Funcs(templateFuncs()).Parse(text)
	}

	name := normalizeTemplateName(opt.TemplateName)
	if name == "" {
		name = defaultTemplateName
	}

	text, err := BuiltinTemplate(name)
	if err != nil {
		return nil, err
	}

	parsed, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseBuiltinTemplate, name, err)
	}

	return parsed, nil
}

// normalizeTemplateName normalizes built-in template identifiers.
func normalizeTemplateName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// templateFuncs exposes value and path helpers to markdown templates.
// Path helpers take canonical path strings, as in entry .Canonical.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"yamlValue": func(value any) string {
			return escapeInline(formatValue(value))
		},
		"pathAnchor":  pathAnchor,
		"pathLink":    pathLink,
		"parentPath":  parentPath,
		"isVariant":   isVariantPath,
		"primaryPath": primaryPath,
		"indent": func(depth int) string {
			return strings.Repeat("  ", max(depth, 0))
		},
	}
}

// pathAnchor builds a markdown anchor from path steps, e.g.
// "ingress.hosts[0].host" becomes "ingress-hosts-0-host" and
// "auth.oneOf[1]" becomes "auth-oneof-1". Text that is not a path is slugged as is.
func pathAnchor(canonical string) string {
	path, err := ParsePath(canonical)
	if err != nil {
		return anchorSlug(canonical)
	}

	parts := make([]string, 0, path.Len())
	for _, step := range path.Steps() {
		var part string
		switch step.Kind {
		case StepIndex:
			part = strconv.Itoa(step.Index)
		case StepVariant:
			part = anchorSlug(step.Key) + "-" + strconv.Itoa(step.Index)
		default:
			part = anchorSlug(step.Key)
		}

		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, "-")
}

// anchorSlug lowercases text and joins letter and digit runs with dashes.
func anchorSlug(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	return strings.Join(fields, "-")
}

// pathLink renders an inline code link to the reference entry of path.
func pathLink(canonical string) string {
	return "[`" + escapeInline(canonical) + "`](#" + pathAnchor(canonical) + ")"
}

// parentPath returns canonical parent of path, or "" for top-level and invalid paths.
func parentPath(canonical string) string {
	path, err := ParsePath(canonical)
	if err != nil || path.IsRoot() {
		return ""
	}

	return path.Parent().String()
}

// isVariantPath reports whether path crosses a oneOf/anyOf discriminator.
func isVariantPath(canonical string) bool {
	path, err := ParsePath(canonical)
	return err == nil && path.HasVariant()
}

// primaryPath drops variant discriminators from path.
func primaryPath(canonical string) string {
	path, err := ParsePath(canonical)
	if err != nil {
		return canonical
	}

	return path.WithoutVariants().String()
}
