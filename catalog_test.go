// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPreservesWalkOrder(t *testing.T) {
	t.Parallel()

	doc := loadFixtureDocument(t)
	catalog := BuildCatalog(Walk(doc))

	walked := make([]string, 0)
	for node := range Walk(doc) {
		walked = append(walked, node.Path.String())
	}

	assert.Equal(t, walked, catalog.Strings())
	assert.Equal(t, len(walked), catalog.Len())
	assert.Len(t, catalog.Paths(), len(walked))
}

func TestCatalogMapsOneEntryPerNode(t *testing.T) {
	t.Parallel()

	first := AnnotatedNode{Path: RootPath().Key("a"), Title: "first", Primary: true}
	second := AnnotatedNode{Path: RootPath().Key("a"), Title: "second", Primary: true}
	catalog := BuildCatalog(slices.Values([]AnnotatedNode{first, second}))

	assert.Equal(t, []string{"a", "a"}, catalog.Strings())

	entry, ok := catalog.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "first", entry.Title)
}

func TestCatalogMatchesWalkLength(t *testing.T) {
	t.Parallel()

	doc := loadFixtureDocument(t)
	assert.Equal(t, len(Nodes(doc)), BuildCatalog(Walk(doc)).Len())
}

func TestCatalogSearch(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog(Walk(loadFixtureDocument(t)))

	assert.Len(t, catalog.Search(""), catalog.Len())
	assert.Equal(t,
		[]string{"image", "image.repository", "image.tag", "image.pullPolicy"},
		pathStrings(catalog.Search("IMAGE")),
	)
	assert.Equal(t,
		[]string{"auth.oneOf[1]", "auth.oneOf[1].token"},
		pathStrings(catalog.Search("oneof[1]")),
	)
	assert.Empty(t, catalog.Search("nothing-matches"))
}

func TestCatalogSearchNarrowsMonotonically(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog(Walk(loadFixtureDocument(t)))

	previous := pathStrings(catalog.Search(""))
	for _, query := range []string{"i", "in", "ing", "ingress.h", "ingress.hosts[0].p"} {
		current := pathStrings(catalog.Search(query))
		for _, path := range current {
			assert.Contains(t, previous, path, "query %q", query)
		}

		previous = current
	}

	assert.Equal(t, []string{"ingress.hosts[0].paths", "ingress.hosts[0].paths[0]"}, previous)
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog(Walk(loadFixtureDocument(t)))

	entry, ok := catalog.Lookup("image.tag")
	require.True(t, ok)
	assert.Equal(t, "string", entry.Type)
	assert.Equal(t, 1, entry.Depth)
	assert.True(t, entry.Primary)

	_, ok = catalog.Lookup("image.digest")
	assert.False(t, ok)

	assert.True(t, catalog.Contains(RootPath().Key("auth").Variant("oneOf", 1).Key("token")))
	assert.False(t, catalog.Contains(RootPath().Key("auth").Key("token")))
}

func TestCatalogFilter(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog(Walk(loadFixtureDocument(t)))

	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{
			name:       "required primary",
			expression: "required && primary",
			want:       []string{"image", "image.repository", "service", "service.port"},
		},
		{
			name:       "variant roots",
			expression: `kind == "variant"`,
			want:       []string{"auth.oneOf[0]", "auth.oneOf[1]"},
		},
		{
			name:       "prefix",
			expression: `path startsWith "service."`,
			want:       []string{"service.type", "service.port"},
		},
		{
			name:       "title",
			expression: `title contains "port"`,
			want:       []string{"service.port"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := catalog.Filter(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entryStrings(entries))
		})
	}
}

func TestCatalogFilterEmptyExpression(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog(Walk(loadFixtureDocument(t)))
	entries, err := catalog.Filter("  ")
	require.NoError(t, err)
	assert.Len(t, entries, catalog.Len())
}

func TestCatalogFilterErrors(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog(Walk(loadFixtureDocument(t)))

	for _, expression := range []string{"required &&", "depth", "unknownField == 1"} {
		_, err := catalog.Filter(expression)
		require.ErrorIs(t, err, ErrFilterExpression, expression)
	}
}

func TestNilCatalog(t *testing.T) {
	t.Parallel()

	var catalog *Catalog
	assert.Zero(t, catalog.Len())
	assert.Nil(t, catalog.Search("x"))
	assert.Nil(t, catalog.Entries())

	entries, err := catalog.Filter("required")
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func pathStrings(paths []Path) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		out = append(out, path.String())
	}

	return out
}

func entryStrings(entries []CatalogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Canonical)
	}

	return out
}
