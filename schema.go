// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaKind is the structural shape of a schema node, resolved once per node.
type SchemaKind uint8

const (
	// KindMalformed marks a node without type, combinator, properties or items.
	KindMalformed SchemaKind = iota
	// KindScalar marks string/number/integer/boolean/null nodes.
	KindScalar
	// KindObject marks nodes with object type or declared properties.
	KindObject
	// KindArray marks nodes with array type or items.
	KindArray
	// KindCombinator marks pure oneOf/anyOf/allOf nodes.
	KindCombinator
	// KindReference marks nodes that are only a $ref (plus overriding annotations).
	KindReference
)

// String returns kind name.
func (kind SchemaKind) String() string {
	switch kind {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindCombinator:
		return "combinator"
	case KindReference:
		return "reference"
	default:
		return "malformed"
	}
}

// Property is one declared object property in schema declaration order.
type Property struct {
	Schema *Schema
	Name   string
	// origin lists references whose expansion supplied the property.
	origin []string
}

// MapItem is one key/value pair of an ordered mapping value.
type MapItem struct {
	Value any
	Key   string
}

// MapSlice is an ordered mapping value decoded from schema keywords such as default.
type MapSlice []MapItem

// Schema is a decoded JSON Schema node. Fields absent in the source keep zero values.
type Schema struct {
	Default     any
	Const       any
	Items       *Schema
	Bool        *bool
	Definitions map[string]*Schema
	Type        string
	Title       string
	Description string
	Ref         string
	Enum        []any
	Examples    []any
	Properties  []Property
	ItemsTuple  []*Schema
	Required    []string
	OneOf       []*Schema
	AnyOf       []*Schema
	AllOf       []*Schema
	HasDefault  bool
	HasConst    bool
}

// Document is one parsed schema with its definitions arena.
type Document struct {
	Root        *Schema
	Definitions map[string]*Schema
	Title       string
}

// ParseFile reads schema file and parses it.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSchemaFile, err)
	}

	return ParseDocument(data)
}

// ParseDocument decodes JSON or YAML schema bytes preserving declaration order.
func ParseDocument(schemaBytes []byte) (*Document, error) {
	return ParseDocumentWithDefinitions(schemaBytes, nil)
}

// ParseDocumentWithDefinitions decodes schema bytes and merges a standalone
// definitions document into the root arena. Root definitions win on name clash.
// definitionBytes may be a bare name-to-schema mapping or a document holding
// "definitions"/"$defs".
func ParseDocumentWithDefinitions(schemaBytes, definitionBytes []byte) (*Document, error) {
	rootNode, err := decodeYAMLRoot(schemaBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	if rootNode == nil || !isSchemaNode(rootNode) {
		return nil, ErrSchemaRootType
	}

	root := decodeSchema(rootNode)
	doc := &Document{
		Root:        root,
		Title:       strings.TrimSpace(root.Title),
		Definitions: make(map[string]*Schema, len(root.Definitions)),
	}

	for name, def := range root.Definitions {
		doc.Definitions[name] = def
	}

	if len(bytes.TrimSpace(definitionBytes)) == 0 {
		return doc, nil
	}

	defsNode, err := decodeYAMLRoot(definitionBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDefinitions, err)
	}

	if defsNode == nil || defsNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: definitions must be a mapping", ErrDecodeDefinitions)
	}

	for name, def := range decodeStandaloneDefinitions(defsNode) {
		if _, exists := doc.Definitions[name]; exists {
			continue
		}

		doc.Definitions[name] = def
	}

	return doc, nil
}

// decodeYAMLRoot decodes bytes into the document content node.
func decodeYAMLRoot(data []byte) (*yaml.Node, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}

	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 {
		return nil, nil
	}

	return unalias(document.Content[0]), nil
}

// decodeStandaloneDefinitions accepts both wrapped and bare definitions mappings.
func decodeStandaloneDefinitions(node *yaml.Node) map[string]*Schema {
	for _, keyword := range []string{"$defs", "definitions"} {
		if inner := mappingValue(node, keyword); inner != nil && inner.Kind == yaml.MappingNode {
			return decodeSchemaMap(inner)
		}
	}

	return decodeSchemaMap(node)
}

// isSchemaNode reports whether YAML node can represent a schema (mapping or boolean).
func isSchemaNode(node *yaml.Node) bool {
	node = unalias(node)
	if node == nil {
		return false
	}

	if node.Kind == yaml.MappingNode {
		return true
	}

	return node.Kind == yaml.ScalarNode && node.Tag == "!!bool"
}

// unalias follows YAML aliases to their anchored node.
func unalias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	return node
}

// decodeSchema converts one YAML mapping or boolean node into Schema.
func decodeSchema(node *yaml.Node) *Schema {
	node = unalias(node)
	schema := &Schema{}
	if node == nil {
		return schema
	}

	if node.Kind == yaml.ScalarNode {
		if value, err := strconv.ParseBool(node.Value); err == nil {
			schema.Bool = &value
		}

		return schema
	}

	if node.Kind != yaml.MappingNode {
		return schema
	}

	for index := 0; index+1 < len(node.Content); index += 2 {
		key := node.Content[index].Value
		value := unalias(node.Content[index+1])

		switch key {
		case "type":
			schema.Type = decodeTypeName(value)
		case "title":
			schema.Title = scalarText(value)
		case "description":
			schema.Description = scalarText(value)
		case "$ref":
			schema.Ref = strings.TrimSpace(scalarText(value))
		case "default":
			schema.Default = decodeValue(value)
			schema.HasDefault = true
		case "const":
			schema.Const = decodeValue(value)
			schema.HasConst = true
		case "enum":
			schema.Enum = decodeList(value)
		case "examples":
			schema.Examples = decodeList(value)
		case "example":
			if len(schema.Examples) == 0 {
				schema.Examples = []any{decodeValue(value)}
			}
		case "required":
			schema.Required = decodeStringList(value)
		case "properties":
			schema.Properties = decodeProperties(value)
		case "items":
			if value.Kind == yaml.SequenceNode {
				schema.ItemsTuple = decodeSchemaList(value)
			} else if isSchemaNode(value) {
				schema.Items = decodeSchema(value)
			}
		case "prefixItems":
			schema.ItemsTuple = decodeSchemaList(value)
		case "oneOf":
			schema.OneOf = decodeSchemaList(value)
		case "anyOf":
			schema.AnyOf = decodeSchemaList(value)
		case "allOf":
			schema.AllOf = decodeSchemaList(value)
		case "definitions", "$defs":
			if value.Kind != yaml.MappingNode {
				continue
			}

			if schema.Definitions == nil {
				schema.Definitions = make(map[string]*Schema)
			}

			for name, def := range decodeSchemaMap(value) {
				if _, exists := schema.Definitions[name]; exists && key == "definitions" {
					continue
				}

				schema.Definitions[name] = def
			}
		}
	}

	return schema
}

// decodeProperties converts properties mapping into ordered property list.
func decodeProperties(node *yaml.Node) []Property {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	out := make([]Property, 0, len(node.Content)/2)
	for index := 0; index+1 < len(node.Content); index += 2 {
		value := node.Content[index+1]
		if !isSchemaNode(value) {
			continue
		}

		out = append(out, Property{
			Name:   node.Content[index].Value,
			Schema: decodeSchema(value),
		})
	}

	return out
}

// decodeSchemaMap converts mapping of schemas into lookup table.
func decodeSchemaMap(node *yaml.Node) map[string]*Schema {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	out := make(map[string]*Schema, len(node.Content)/2)
	for index := 0; index+1 < len(node.Content); index += 2 {
		value := node.Content[index+1]
		if !isSchemaNode(value) {
			continue
		}

		out[node.Content[index].Value] = decodeSchema(value)
	}

	return out
}

// decodeSchemaList converts sequence of schemas, skipping non-schema entries.
func decodeSchemaList(node *yaml.Node) []*Schema {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}

	out := make([]*Schema, 0, len(node.Content))
	for _, item := range node.Content {
		if !isSchemaNode(item) {
			continue
		}

		out = append(out, decodeSchema(item))
	}

	return out
}

// decodeTypeName returns first non-null type from string or list "type" keyword.
func decodeTypeName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return strings.ToLower(strings.TrimSpace(node.Value))
	case yaml.SequenceNode:
		hasNull := false
		for _, item := range node.Content {
			text := strings.ToLower(strings.TrimSpace(scalarText(item)))
			if text == "" {
				continue
			}

			if text == "null" {
				hasNull = true
				continue
			}

			return text
		}

		if hasNull {
			return "null"
		}
	}

	return ""
}

// decodeStringList converts sequence of scalars into trimmed string list.
func decodeStringList(node *yaml.Node) []string {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}

	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		text := strings.TrimSpace(scalarText(item))
		if text == "" {
			continue
		}

		out = append(out, text)
	}

	return out
}

// decodeList converts sequence node into list of plain values.
func decodeList(node *yaml.Node) []any {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}

	out := make([]any, 0, len(node.Content))
	for _, item := range node.Content {
		out = append(out, decodeValue(item))
	}

	return out
}

// decodeValue converts YAML node into nil|bool|int64|float64|string|[]any|MapSlice.
func decodeValue(node *yaml.Node) any {
	node = unalias(node)
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		out := make(MapSlice, 0, len(node.Content)/2)
		for index := 0; index+1 < len(node.Content); index += 2 {
			out = append(out, MapItem{
				Key:   node.Content[index].Value,
				Value: decodeValue(node.Content[index+1]),
			})
		}

		return out
	case yaml.SequenceNode:
		return decodeList(node)
	case yaml.ScalarNode:
		return decodeScalar(node)
	default:
		return nil
	}
}

// decodeScalar converts scalar node by its resolved YAML tag.
func decodeScalar(node *yaml.Node) any {
	switch node.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		if value, err := strconv.ParseBool(strings.ToLower(node.Value)); err == nil {
			return value
		}
	case "!!int":
		if value, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
			return value
		}

		if value, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return value
		}
	case "!!float":
		var value float64
		if err := node.Decode(&value); err == nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
			return value
		}
	}

	return node.Value
}

// scalarText returns scalar node text or empty string for non-scalars.
func scalarText(node *yaml.Node) string {
	node = unalias(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}

	return node.Value
}

// mappingValue returns value node stored under key in mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	for index := 0; index+1 < len(node.Content); index += 2 {
		if node.Content[index].Value == key {
			return unalias(node.Content[index+1])
		}
	}

	return nil
}

// Kind resolves the structural shape of the schema node.
func (schema *Schema) Kind() SchemaKind {
	if schema == nil {
		return KindMalformed
	}

	switch schema.Type {
	case "object":
		return KindObject
	case "array":
		return KindArray
	case "string", "number", "integer", "boolean", "null":
		return KindScalar
	}

	switch {
	case len(schema.Properties) > 0:
		return KindObject
	case schema.Items != nil || len(schema.ItemsTuple) > 0:
		return KindArray
	case len(schema.OneOf) > 0 || len(schema.AnyOf) > 0 || len(schema.AllOf) > 0:
		return KindCombinator
	case schema.Ref != "":
		return KindReference
	}

	return KindMalformed
}

// IsRequired reports whether property name is listed in schema required set.
func (schema *Schema) IsRequired(name string) bool {
	if schema == nil {
		return false
	}

	for _, item := range schema.Required {
		if item == name {
			return true
		}
	}

	return false
}

// Property returns declared property schema by name.
func (schema *Schema) Property(name string) (*Schema, bool) {
	if schema == nil {
		return nil, false
	}

	for _, prop := range schema.Properties {
		if prop.Name == name {
			return prop.Schema, true
		}
	}

	return nil, false
}
