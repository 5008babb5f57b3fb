// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixtureView(t testing.TB, opts ...ViewOption) *SchemaView {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "values.schema.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	view := NewSchemaView(opts...)
	if err := view.Load(data, "demo", nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	return view
}

func TestSchemaViewUnloaded(t *testing.T) {
	t.Parallel()

	view := NewSchemaView()
	assert.Equal(t, StateUnloaded, view.State())
	assert.Empty(t, view.Text())
	assert.Nil(t, view.Search(""))
	assert.Empty(t, view.TreeNodes())
	assert.Empty(t, view.TitleLine())

	_, ok := view.Highlight()
	assert.False(t, ok)
}

func TestSchemaViewLoad(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)
	golden, err := os.ReadFile(filepath.Join("testdata", "values.golden.yaml"))
	require.NoError(t, err)

	assert.Equal(t, StateReady, view.State())
	assert.Equal(t, string(golden), view.Text())
	assert.Equal(t, 37, view.Catalog().Len())
	assert.Len(t, view.Nodes(), 37)
	assert.Len(t, view.Issues(), 2)
	assert.Equal(t, "values-demo.yaml", view.Filename())
	assert.Equal(t, "# Demo chart values", view.TitleLine())
	assert.Equal(t, []string{"image.tag"}, pathStrings(view.Search("image.t")))
}

func TestSchemaViewLoadError(t *testing.T) {
	t.Parallel()

	view := NewSchemaView()
	require.ErrorIs(t, view.Load([]byte(`[1, 2]`), "demo", nil), ErrSchemaRootType)
	assert.Equal(t, StateUnloaded, view.State())
}

func TestSchemaViewFilenameFallback(t *testing.T) {
	t.Parallel()

	view := NewSchemaView()
	view.SetSchema(parseTestDocument(t, `{"type": "object"}`), "  ")
	assert.Equal(t, "values-chart.yaml", view.Filename())
	assert.Empty(t, view.Text())
}

func TestSchemaViewDispatchNotifiesInOrder(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)

	var calls []string
	var changes []ActivePathChange
	view.Subscribe(func(change ActivePathChange) {
		calls = append(calls, "search")
		changes = append(changes, change)
	})
	view.Subscribe(func(ActivePathChange) {
		calls = append(calls, "tree")
	})
	view.Subscribe(nil)

	path := RootPath().Key("image").Key("tag")
	view.Dispatch(PathSelected{Path: path, Source: SourceSearch})

	assert.Equal(t, []string{"search", "tree"}, calls)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Active)
	assert.Equal(t, SourceSearch, changes[0].Source)
	assert.True(t, path.Equal(changes[0].Path))

	active, ok := view.ActivePath()
	require.True(t, ok)
	assert.True(t, path.Equal(active))

	view.Dispatch(PathSelected{Source: SourceTree, Clear: true})
	_, ok = view.ActivePath()
	assert.False(t, ok)
	require.Len(t, changes, 2)
	assert.False(t, changes[1].Active)
	assert.Equal(t, SourceTree, changes[1].Source)
}

func TestSchemaViewHighlight(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)

	tests := []struct {
		path string
		line int
	}{
		{path: "image.tag", line: 8},
		{path: "ingress.hosts[0].host", line: 17},
		{path: "auth.oneOf[1].token", line: 22},
		{path: "auth.oneOf[0].basic.user", line: 24},
		{path: "image.digest", line: 4},
		{path: "tree.children[0]", line: 32},
	}

	for _, tt := range tests {
		path, err := ParsePath(tt.path)
		require.NoError(t, err)

		view.Dispatch(PathSelected{Path: path, Source: SourceSearch})
		line, ok := view.Highlight()
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.line, line, tt.path)
	}

	view.Dispatch(PathSelected{Clear: true, Source: SourceSearch})
	_, ok := view.Highlight()
	assert.False(t, ok)
}

func TestSchemaViewTreeNodes(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)
	rows := view.TreeNodes()
	assert.Len(t, rows, 31)

	for _, row := range rows {
		assert.True(t, row.Node.Primary, row.Path)
		assert.False(t, row.Active || row.Expanded, row.Path)
	}

	view.Dispatch(PathSelected{Path: RootPath().Key("image").Key("tag"), Source: SourceTree})

	byPath := make(map[string]TreeNode)
	for _, row := range view.TreeNodes() {
		byPath[row.Path] = row
	}

	assert.True(t, byPath["image"].Expanded)
	assert.False(t, byPath["image"].Active)
	assert.True(t, byPath["image.tag"].Active)
	assert.True(t, byPath["image.tag"].Expanded)
	assert.False(t, byPath["image.repository"].Expanded)
	assert.False(t, byPath["service"].Expanded)
	assert.True(t, byPath["image"].Required)
	assert.Equal(t, 1, byPath["image.tag"].Depth)
}

func TestSchemaViewTreeFollowsVariantSelection(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)
	view.Dispatch(PathSelected{
		Path:   RootPath().Key("auth").Variant("oneOf", 0).Key("basic"),
		Source: SourceSearch,
	})

	byPath := make(map[string]TreeNode)
	for _, row := range view.TreeNodes() {
		byPath[row.Path] = row
	}

	assert.True(t, byPath["auth"].Expanded)
	assert.True(t, byPath["auth.basic"].Active)
}

func TestSchemaViewSameDocumentIsNoop(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)
	doc := view.Document()
	text := view.Text()

	notified := 0
	view.Subscribe(func(ActivePathChange) { notified++ })
	view.Dispatch(PathSelected{Path: RootPath().Key("image"), Source: SourceSearch})
	require.Equal(t, 1, notified)

	view.SetSchema(doc, "renamed")
	assert.Equal(t, 1, notified)
	assert.Equal(t, text, view.Text())
	assert.Equal(t, "values-renamed.yaml", view.Filename())

	_, ok := view.ActivePath()
	assert.True(t, ok)
}

func TestSchemaViewNewDocumentClearsActivePath(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t)

	var changes []ActivePathChange
	view.Subscribe(func(change ActivePathChange) { changes = append(changes, change) })
	view.Dispatch(PathSelected{Path: RootPath().Key("image"), Source: SourceSearch})

	view.SetSchema(loadFixtureDocument(t), "demo")

	require.Len(t, changes, 2)
	assert.Equal(t, SourceSchema, changes[1].Source)
	assert.False(t, changes[1].Active)

	_, ok := view.ActivePath()
	assert.False(t, ok)

	view.SetSchema(parseTestDocument(t, `{"type": "object", "properties": {"x": {"type": "string"}}}`), "demo")
	assert.Len(t, changes, 2, "no notification without an active path")
	assert.Equal(t, "x: \"\"\n", view.Text())
}

type stateRecordingLogger struct {
	view   *SchemaView
	states []ViewState
}

func (logger *stateRecordingLogger) Debugf(string, ...any) {}

func (logger *stateRecordingLogger) Warnf(string, ...any) {
	logger.states = append(logger.states, logger.view.State())
}

func TestSchemaViewProjectingStateVisibleToWalkLogger(t *testing.T) {
	t.Parallel()

	logger := &stateRecordingLogger{}
	view := NewSchemaView(WithWalkOptions(WithLogger(logger)))
	logger.view = view

	view.SetSchema(loadFixtureDocument(t), "demo")

	assert.Equal(t, []ViewState{StateProjecting}, logger.states)
	assert.Equal(t, StateReady, view.State())
}

func TestSchemaViewWalkOptions(t *testing.T) {
	t.Parallel()

	view := loadFixtureView(t, WithWalkOptions(WithMode(ExampleModeRequired)))
	golden, err := os.ReadFile(filepath.Join("testdata", "values.golden.required.yaml"))
	require.NoError(t, err)

	assert.Equal(t, string(golden), view.Text())
	assert.Equal(t, []string{"image", "image.repository", "service", "service.port"}, view.Catalog().Strings())
}
