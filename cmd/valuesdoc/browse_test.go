// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/valuesdoc"
)

const browseSchema = `{
  "type": "object",
  "properties": {
    "image": {
      "type": "object",
      "properties": {
        "repository": { "type": "string", "default": "nginx" },
        "tag": { "type": "string", "default": "latest" }
      }
    },
    "replicas": { "type": "integer", "default": 1 }
  }
}`

func newTestBrowser(t *testing.T) (*browser, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 12)

	view := valuesdoc.NewSchemaView()
	require.NoError(t, view.Load([]byte(browseSchema), "demo", nil))

	return newBrowser(view, screen), screen
}

func typeQuery(b *browser, query string) {
	for _, r := range query {
		b.handle(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func pressKey(b *browser, key tcell.Key) bool {
	return b.handle(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func screenRow(screen tcell.Screen, y int) string {
	width, _ := screen.Size()

	var row strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}

		row.WriteRune(r)
	}

	return strings.TrimRight(row.String(), " ")
}

func TestBrowserSearchFiltersResults(t *testing.T) {
	t.Parallel()

	b, screen := newTestBrowser(t)
	defer screen.Fini()

	typeQuery(b, "TAG")
	require.Len(t, b.results, 1)
	assert.Equal(t, "image.tag", b.results[0].String())

	b.draw()
	assert.Equal(t, "search: TAG", screenRow(screen, 0))
	assert.True(t, strings.HasPrefix(screenRow(screen, 1), "image.tag"))

	pressKey(b, tcell.KeyBackspace2)
	assert.Equal(t, "TA", b.query)
	assert.Len(t, b.results, 1)
}

func TestBrowserEnterSelectsAndHighlights(t *testing.T) {
	t.Parallel()

	b, screen := newTestBrowser(t)
	defer screen.Fini()

	typeQuery(b, "tag")
	pressKey(b, tcell.KeyEnter)

	active, ok := b.view.ActivePath()
	require.True(t, ok)
	assert.Equal(t, "image.tag", active.String())

	line, ok := b.view.Highlight()
	require.True(t, ok)
	assert.Equal(t, 3, line)

	b.draw()
	_, height := screen.Size()
	assertContains(t, screenRow(screen, height-1), "image.tag | values-demo.yaml")

	_, _, style, _ := screen.GetContent(50, line)
	_, _, attrs := style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse)
	assertContains(t, screenRow(screen, line), `tag: "latest"`)
}

func TestBrowserTreeNavigationDispatchesTreeSource(t *testing.T) {
	t.Parallel()

	b, screen := newTestBrowser(t)
	defer screen.Fini()

	var sources []valuesdoc.SelectionSource
	b.view.Subscribe(func(change valuesdoc.ActivePathChange) {
		sources = append(sources, change.Source)
	})

	pressKey(b, tcell.KeyTab)
	pressKey(b, tcell.KeyDown)

	active, ok := b.view.ActivePath()
	require.True(t, ok)
	assert.Equal(t, "image.repository", active.String())
	assert.Equal(t, []valuesdoc.SelectionSource{valuesdoc.SourceTree}, sources)

	b.draw()
	assert.True(t, strings.HasPrefix(screenRow(screen, 1), "▾ image"), screenRow(screen, 1))
	assert.True(t, strings.HasPrefix(screenRow(screen, 2), "    repository"), screenRow(screen, 2))
}

func TestBrowserSearchSelectionMovesTreeCursor(t *testing.T) {
	t.Parallel()

	b, screen := newTestBrowser(t)
	defer screen.Fini()

	typeQuery(b, "replicas")
	pressKey(b, tcell.KeyEnter)
	assert.Equal(t, 3, b.treeCursor)

	pressKey(b, tcell.KeyCtrlU)
	_, ok := b.view.ActivePath()
	assert.False(t, ok)
	assert.Empty(t, b.query)
	assert.Len(t, b.results, 4)
}

func TestBrowserRunStopsOnEscape(t *testing.T) {
	t.Parallel()

	b, screen := newTestBrowser(t)

	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	require.NoError(t, b.run())

	active, ok := b.view.ActivePath()
	require.True(t, ok)
	assert.Equal(t, "image.repository", active.String())
}

func TestTreeLabel(t *testing.T) {
	t.Parallel()

	path, err := valuesdoc.ParsePath("hosts[0].name")
	require.NoError(t, err)

	label := treeLabel(valuesdoc.TreeNode{
		Node:  valuesdoc.AnnotatedNode{Path: path, Kind: valuesdoc.NodeScalar},
		Path:  path.String(),
		Depth: 2,
	})
	assert.Equal(t, "      name", label)

	label = treeLabel(valuesdoc.TreeNode{
		Node:     valuesdoc.AnnotatedNode{Path: path.Parent(), Kind: valuesdoc.NodeObject},
		Path:     path.Parent().String(),
		Depth:    1,
		Expanded: true,
	})
	assert.Equal(t, "  ▾ [0]", label)
}

func TestClampAndListOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, clamp(-1, 3))
	assert.Equal(t, 2, clamp(5, 3))
	assert.Equal(t, 0, clamp(1, 0))
	assert.Equal(t, 0, listOffset(3, 10))
	assert.Equal(t, 3, listOffset(12, 10))
}
