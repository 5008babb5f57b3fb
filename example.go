// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// GenerateExampleYAML returns annotated YAML example for schema bytes.
func GenerateExampleYAML(schemaBytes []byte, mode ExampleMode) ([]byte, error) {
	mode, err := ParseExampleMode(string(mode))
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(schemaBytes)
	if err != nil {
		return nil, err
	}

	return []byte(Project(Walk(doc, WithMode(mode)))), nil
}

// GenerateExampleJSON returns example payload encoded as pretty JSON.
func GenerateExampleJSON(schemaBytes []byte, mode ExampleMode) ([]byte, error) {
	mode, err := ParseExampleMode(string(mode))
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(schemaBytes)
	if err != nil {
		return nil, err
	}

	return ExampleJSON(Walk(doc, WithMode(mode)))
}

// ExampleJSON builds the primary example value of a walk and encodes it as
// pretty JSON with schema declaration order kept.
func ExampleJSON(nodes iter.Seq[AnnotatedNode]) ([]byte, error) {
	value := ExampleValue(nodes)

	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
	}

	return out.Bytes(), nil
}

// ExampleValue materializes primary nodes into nested MapSlice/[]any values.
// A walk without nodes yields an empty MapSlice.
func ExampleValue(nodes iter.Seq[AnnotatedNode]) any {
	var root exampleContainer
	var scalarRoot any
	hasScalarRoot := false
	stack := make([]*exampleContainer, 0, 8)

	for node := range nodes {
		if !node.Primary {
			continue
		}

		last, ok := node.Path.Last()
		if !ok {
			scalarRoot, hasScalarRoot = exampleNodeValue(node), true
			continue
		}

		if len(stack) == 0 {
			root.isArray = last.Kind == StepIndex
			stack = append(stack, &root)
		}

		if node.Depth+1 > len(stack) {
			continue
		}

		stack = stack[:node.Depth+1]
		parent := stack[node.Depth]

		if node.Value == nil && (node.Kind == NodeObject || node.Kind == NodeArray) {
			child := &exampleContainer{isArray: node.Kind == NodeArray}
			parent.add(last.Key, child)
			stack = append(stack, child)
			continue
		}

		parent.add(last.Key, exampleNodeValue(node))
	}

	if hasScalarRoot {
		return scalarRoot
	}

	return root.value()
}

// exampleNodeValue converts node example into JSON-encodable value.
func exampleNodeValue(node AnnotatedNode) any {
	if _, ok := node.Value.(Placeholder); ok {
		return MapSlice{}
	}

	return node.Value
}

// exampleContainer collects children of one object or array during materialization.
type exampleContainer struct {
	keys    []string
	values  []any
	isArray bool
}

// add appends one child value.
func (container *exampleContainer) add(key string, value any) {
	container.keys = append(container.keys, key)
	container.values = append(container.values, value)
}

// value converts container tree into MapSlice/[]any.
func (container *exampleContainer) value() any {
	if container.isArray {
		out := make([]any, 0, len(container.values))
		for _, item := range container.values {
			out = append(out, materialize(item))
		}

		return out
	}

	out := make(MapSlice, 0, len(container.values))
	for index, item := range container.values {
		out = append(out, MapItem{Key: container.keys[index], Value: materialize(item)})
	}

	return out
}

// materialize unwraps nested containers.
func materialize(value any) any {
	if nested, ok := value.(*exampleContainer); ok {
		return nested.value()
	}

	return value
}

// MarshalJSON encodes ordered mapping with keys in declaration order.
func (items MapSlice) MarshalJSON() ([]byte, error) {
	var out bytes.Buffer
	out.WriteByte('{')

	for index, item := range items {
		if index > 0 {
			out.WriteByte(',')
		}

		key, err := marshalJSONNoEscape(item.Key)
		if err != nil {
			return nil, err
		}

		value, err := marshalJSONNoEscape(item.Value)
		if err != nil {
			return nil, err
		}

		out.Write(key)
		out.WriteByte(':')
		out.Write(value)
	}

	out.WriteByte('}')
	return out.Bytes(), nil
}

// marshalJSONNoEscape encodes one value without HTML escaping.
func marshalJSONNoEscape(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimRight(out.Bytes(), "\n"), nil
}
