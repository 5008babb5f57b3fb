// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkFixtureCatalogOrder(t *testing.T) {
	t.Parallel()

	want := []string{
		"replicaCount",
		"image",
		"image.repository",
		"image.tag",
		"image.pullPolicy",
		"service",
		"service.type",
		"service.port",
		"ingress",
		"ingress.enabled",
		"ingress.hosts",
		"ingress.hosts[0]",
		"ingress.hosts[0].host",
		"ingress.hosts[0].paths",
		"ingress.hosts[0].paths[0]",
		"ingress.annotations",
		"auth",
		"auth.basic",
		"auth.basic.user",
		"auth.basic.password",
		"auth.oneOf[0]",
		"auth.oneOf[0].basic",
		"auth.oneOf[0].basic.user",
		"auth.oneOf[0].basic.password",
		"auth.oneOf[1]",
		"auth.oneOf[1].token",
		"resources",
		"resources.cpu",
		"resources.memory",
		"tree",
		"tree.name",
		"tree.children",
		"tree.children[0]",
		"extra",
		"tolerations",
		"tolerations[0]",
		"labels",
	}

	got := make([]string, 0, len(want))
	for node := range Walk(loadFixtureDocument(t)) {
		got = append(got, node.Path.String())
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkPathsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for node := range Walk(loadFixtureDocument(t)) {
		key := node.Path.String()
		_, dup := seen[key]
		require.False(t, dup, "duplicate path %s", key)
		seen[key] = struct{}{}
	}
}

func TestWalkNodeAnnotations(t *testing.T) {
	t.Parallel()

	nodes := indexNodes(Nodes(loadFixtureDocument(t)))

	replicas := nodes["replicaCount"]
	assert.Equal(t, 0, replicas.Depth)
	assert.Equal(t, NodeScalar, replicas.Kind)
	assert.Equal(t, "integer", replicas.Type)
	assert.Equal(t, int64(1), replicas.Value)
	assert.True(t, replicas.HasDefault)
	assert.False(t, replicas.Required)
	assert.True(t, replicas.Primary)
	assert.Equal(t, -1, replicas.Variant)

	image := nodes["image"]
	assert.Equal(t, NodeObject, image.Kind)
	assert.Nil(t, image.Value)
	assert.True(t, image.Required)
	assert.Equal(t, "Container image", image.Title)

	assert.Equal(t, []any{"IfNotPresent", "Always", "Never"}, nodes["image.pullPolicy"].Enum)
	assert.Equal(t, 1, nodes["image.repository"].Depth)

	hostsItem := nodes["ingress.hosts[0]"]
	assert.Equal(t, 2, hostsItem.Depth)
	assert.False(t, hostsItem.Required, "index steps are never required")
	assert.Equal(t, "chart.local", nodes["ingress.hosts[0].host"].Value)

	assert.Equal(t, MapSlice{}, nodes["ingress.annotations"].Value)
	assert.Equal(t, "object", nodes["labels"].Type)
	assert.Equal(t, MapSlice{}, nodes["labels"].Value)
}

func TestWalkVariants(t *testing.T) {
	t.Parallel()

	nodes := indexNodes(Nodes(loadFixtureDocument(t)))

	auth := nodes["auth"]
	assert.True(t, auth.Primary)
	assert.Equal(t, NodeObject, auth.Kind)
	assert.Equal(t, "Authentication backend.", auth.Description)

	variant := nodes["auth.oneOf[1]"]
	assert.Equal(t, NodeVariant, variant.Kind)
	assert.False(t, variant.Primary)
	assert.Equal(t, 1, variant.Variant)
	assert.Equal(t, auth.Depth, variant.Depth)

	token := nodes["auth.oneOf[1].token"]
	assert.False(t, token.Primary)
	assert.True(t, token.Required)
	assert.Equal(t, auth.Depth+1, token.Depth)

	assert.True(t, nodes["auth.basic.user"].Primary)
	assert.False(t, nodes["auth.oneOf[0].basic.user"].Primary)
}

func TestWalkNestedVariantDiscriminators(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `
type: object
properties:
  a:
    oneOf:
      - type: string
      - anyOf:
          - type: object
            properties:
              b: {type: string}
          - type: integer
`)

	nodes := indexNodes(Nodes(doc))
	for _, path := range []string{
		"a",
		"a.oneOf[0]",
		"a.oneOf[1]",
		"a.oneOf[1].b",
		"a.oneOf[1].anyOf[0]",
		"a.oneOf[1].anyOf[0].b",
		"a.oneOf[1].anyOf[1]",
	} {
		_, ok := nodes[path]
		assert.True(t, ok, "missing %s", path)
	}

	assert.Equal(t, "", nodes["a"].Value)
	assert.Equal(t, NodeScalar, nodes["a"].Kind)
	assert.Equal(t, NodeVariant, nodes["a.oneOf[1].anyOf[1]"].Kind)
	assert.Equal(t, int64(0), nodes["a.oneOf[1].anyOf[1]"].Value)

	parsed, err := ParsePath("a.oneOf[1].anyOf[0].b")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(nodes["a.oneOf[1].anyOf[0].b"].Path))
}

func TestWalkAllOfMergeOrder(t *testing.T) {
	t.Parallel()

	var got []AnnotatedNode
	for node := range Walk(loadFixtureDocument(t)) {
		if node.Path.HasPrefix(RootPath().Key("resources")) {
			got = append(got, node)
		}
	}

	require.Len(t, got, 3)
	assert.Equal(t, "resources.cpu", got[1].Path.String())
	assert.Equal(t, "500m", got[1].Value)
	assert.Equal(t, "resources.memory", got[2].Path.String())
	assert.Equal(t, "128Mi", got[2].Value)
}

func TestWalkReportsReferenceIssues(t *testing.T) {
	t.Parallel()

	var issues []error
	nodes := indexNodes(Nodes(loadFixtureDocument(t), WithIssueHandler(func(err error) {
		issues = append(issues, err)
	})))

	require.Len(t, issues, 2)

	var unresolved, cyclic *ReferenceIssue
	for _, err := range issues {
		var issue *ReferenceIssue
		require.True(t, errors.As(err, &issue))
		switch {
		case errors.Is(err, ErrUnresolvedReference):
			unresolved = issue
		case errors.Is(err, ErrCyclicReference):
			cyclic = issue
		}
	}

	require.NotNil(t, unresolved)
	assert.Equal(t, "extra", unresolved.Path)
	assert.Equal(t, "#/$defs/Missing", unresolved.Ref)
	assert.Equal(t, `unresolved reference: "#/$defs/Missing" at extra`, unresolved.Error())

	require.NotNil(t, cyclic)
	assert.Equal(t, "tree.children[0]", cyclic.Path)

	assert.Equal(t, Placeholder{Reason: PlaceholderUnresolved, Ref: "#/$defs/Missing"}, nodes["extra"].Value)
	assert.Equal(t, Placeholder{Reason: PlaceholderRecursive, Ref: "#/$defs/Node"}, nodes["tree.children[0]"].Value)
	assert.True(t, nodes["extra"].IsPlaceholder())
}

func TestWalkSelfReferenceYieldsOnePlaceholder(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `{
		"type": "object",
		"properties": {"head": {"$ref": "#/$defs/Item"}},
		"$defs": {
			"Item": {
				"type": "object",
				"properties": {
					"value": {"type": "string"},
					"next": {"$ref": "#/$defs/Item"}
				}
			}
		}
	}`)

	placeholders := 0
	paths := make([]string, 0)
	for node := range Walk(doc) {
		paths = append(paths, node.Path.String())
		if node.IsPlaceholder() {
			placeholders++
		}
	}

	assert.Equal(t, 1, placeholders)
	assert.Equal(t, []string{"head", "head.value", "head.next"}, paths)
}

func TestWalkSiblingReferenceRepeatsExpansion(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `{
		"type": "object",
		"properties": {
			"primary": {"$ref": "#/definitions/Endpoint"},
			"backup": {"$ref": "#/definitions/Endpoint", "description": "Fallback endpoint."}
		},
		"definitions": {
			"Endpoint": {"type": "object", "description": "Endpoint.", "properties": {"url": {"type": "string"}}}
		}
	}`)

	nodes := indexNodes(Nodes(doc))
	assert.Contains(t, nodes, "primary.url")
	assert.Contains(t, nodes, "backup.url")
	assert.Equal(t, "Endpoint.", nodes["primary"].Description)
	assert.Equal(t, "Fallback endpoint.", nodes["backup"].Description)
}

func TestWalkMaxDepth(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `
type: object
properties:
  a:
    type: object
    properties:
      b:
        type: object
        properties:
          c:
            type: object
            properties:
              d: {type: string}
`)

	assert.Equal(t, "a:\n  b:\n    c: {}  # max depth\n", Project(Walk(doc, WithMaxDepth(1))))
	assert.Contains(t, Project(Walk(doc, WithMaxDepth(0))), "d: \"\"")
}

func TestWalkRequiredMode(t *testing.T) {
	t.Parallel()

	paths := make([]string, 0)
	for node := range Walk(loadFixtureDocument(t), WithMode(ExampleModeRequired)) {
		paths = append(paths, node.Path.String())
	}

	assert.Equal(t, []string{"image", "image.repository", "service", "service.port"}, paths)
}

func TestWalkUnknownModeKeepsAll(t *testing.T) {
	t.Parallel()

	doc := loadFixtureDocument(t)
	assert.Equal(t, len(Nodes(doc)), len(Nodes(doc, WithMode("bogus"))))

	_, err := ParseExampleMode("bogus")
	require.ErrorIs(t, err, ErrUnknownExampleMode)
}

func TestWalkStopsEarly(t *testing.T) {
	t.Parallel()

	count := 0
	for range Walk(loadFixtureDocument(t)) {
		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestWalkTupleItems(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `
type: object
properties:
  pair:
    type: array
    prefixItems:
      - type: string
      - type: integer
`)

	assert.Equal(t, []string{"pair", "pair[0]", "pair[1]"}, BuildCatalog(Walk(doc)).Strings())
	assert.Equal(t, "pair:\n  - \"\"\n  - 0\n", Project(Walk(doc)))
}

func TestWalkScalarRoot(t *testing.T) {
	t.Parallel()

	nodes := Nodes(parseTestDocument(t, `{"type": "integer", "enum": [3, 5]}`))
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].Path.IsRoot())
	assert.Equal(t, int64(3), nodes[0].Value)
	assert.False(t, nodes[0].Required)
}

func TestWalkNilDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Nodes(nil))
}

func indexNodes(nodes []AnnotatedNode) map[string]AnnotatedNode {
	out := make(map[string]AnnotatedNode, len(nodes))
	for _, node := range nodes {
		out[node.Path.String()] = node
	}

	return out
}

func TestWalkSiblingPropertyReusesBaseDefinition(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"allOf base": `{
			"type": "object",
			"definitions": {
				"res": {"type": "object", "properties": {"cpu": {"type": "string", "default": "100m"}}}
			},
			"properties": {
				"r": {
					"allOf": [{"$ref": "#/definitions/res"}],
					"properties": {"limits": {"$ref": "#/definitions/res"}}
				}
			}
		}`,
		"ref with sibling properties": `{
			"type": "object",
			"definitions": {
				"res": {"type": "object", "properties": {"cpu": {"type": "string", "default": "100m"}}}
			},
			"properties": {
				"r": {
					"$ref": "#/definitions/res",
					"properties": {"limits": {"$ref": "#/definitions/res"}}
				}
			}
		}`,
	}

	for name, schema := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var issues []error
			text := Project(Walk(parseTestDocument(t, schema), WithIssueHandler(func(err error) {
				issues = append(issues, err)
			})))

			assert.Equal(t, "r:\n  cpu: \"100m\"\n  limits:\n    cpu: \"100m\"\n", text)
			assert.Empty(t, issues)
		})
	}
}

func TestWalkBaseDefinitionCycleIsStillBroken(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `{
		"type": "object",
		"definitions": {
			"node": {"type": "object", "properties": {"next": {"$ref": "#/definitions/node"}}}
		},
		"properties": {
			"r": {
				"allOf": [{"$ref": "#/definitions/node"}],
				"properties": {"own": {"type": "string"}}
			}
		}
	}`)

	var issues []error
	text := Project(Walk(doc, WithIssueHandler(func(err error) {
		issues = append(issues, err)
	})))

	assert.Equal(t, "r:\n  next: {}  # recursive: #/definitions/node\n  own: \"\"\n", text)
	require.Len(t, issues, 1)
	require.ErrorIs(t, issues[0], ErrCyclicReference)

	var issue *ReferenceIssue
	require.True(t, errors.As(issues[0], &issue))
	assert.Equal(t, "r.next", issue.Path)
}
