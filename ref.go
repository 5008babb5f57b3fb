// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"strconv"
	"strings"
)

// Resolve looks up a local reference in the document arena.
// Only "#", "#/definitions/..." and "#/$defs/..." pointers are resolvable;
// deeper tokens navigate properties, items, combinators and nested definitions.
func (doc *Document) Resolve(ref string) (*Schema, bool) {
	if doc == nil || doc.Root == nil {
		return nil, false
	}

	ref = strings.TrimSpace(ref)
	if ref == "#" {
		return doc.Root, true
	}

	if !strings.HasPrefix(ref, "#/") {
		return nil, false
	}

	tokens := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	for index := range tokens {
		tokens[index] = decodeJSONPointerToken(tokens[index])
	}

	if len(tokens) < 2 || (tokens[0] != "definitions" && tokens[0] != "$defs") {
		return navigateSchema(doc.Root, tokens)
	}

	current, ok := doc.Definitions[tokens[1]]
	if !ok {
		return nil, false
	}

	return navigateSchema(current, tokens[2:])
}

// navigateSchema follows JSON pointer tokens through decoded schema fields.
func navigateSchema(current *Schema, tokens []string) (*Schema, bool) {
	for index := 0; index < len(tokens); index++ {
		if current == nil {
			return nil, false
		}

		token := tokens[index]
		next := ""
		if index+1 < len(tokens) {
			next = tokens[index+1]
		}

		switch token {
		case "properties":
			prop, ok := current.Property(next)
			if !ok {
				return nil, false
			}

			current = prop
			index++
		case "definitions", "$defs":
			def, ok := current.Definitions[next]
			if !ok {
				return nil, false
			}

			current = def
			index++
		case "items", "prefixItems":
			if current.Items != nil && token == "items" {
				current = current.Items
				continue
			}

			item, ok := schemaAt(current.ItemsTuple, next)
			if !ok {
				return nil, false
			}

			current = item
			index++
		case "oneOf", "anyOf", "allOf":
			list := current.OneOf
			switch token {
			case "anyOf":
				list = current.AnyOf
			case "allOf":
				list = current.AllOf
			}

			item, ok := schemaAt(list, next)
			if !ok {
				return nil, false
			}

			current = item
			index++
		default:
			return nil, false
		}
	}

	return current, current != nil
}

// schemaAt returns list item by decimal index token.
func schemaAt(list []*Schema, token string) (*Schema, bool) {
	position, err := strconv.Atoi(token)
	if err != nil || position < 0 || position >= len(list) {
		return nil, false
	}

	return list[position], true
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
