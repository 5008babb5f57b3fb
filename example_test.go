// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixtureSchema(t testing.TB) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "values.schema.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	return data
}

func TestGenerateExampleJSONAllMode(t *testing.T) {
	t.Parallel()

	gotBytes, err := GenerateExampleJSON(readFixtureSchema(t), ExampleModeAll)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(gotBytes, &got))

	assert.Equal(t, float64(1), got["replicaCount"])
	assert.Equal(t, map[string]any{
		"repository": "nginx",
		"tag":        "",
		"pullPolicy": "IfNotPresent",
	}, got["image"])
	assert.Equal(t, map[string]any{
		"basic": map[string]any{"user": "", "password": ""},
	}, got["auth"])
	assert.Equal(t, map[string]any{
		"name":     "",
		"children": []any{map[string]any{}},
	}, got["tree"])
	assert.Equal(t, map[string]any{}, got["extra"])
	assert.Equal(t, []any{map[string]any{}}, got["tolerations"])

	text := string(gotBytes)
	assert.Less(t, strings.Index(text, `"replicaCount"`), strings.Index(text, `"image"`))
	assert.Less(t, strings.Index(text, `"image"`), strings.Index(text, `"service"`))
	assert.Less(t, strings.Index(text, `"repository"`), strings.Index(text, `"pullPolicy"`))
	assert.True(t, strings.HasPrefix(text, "{\n  \"replicaCount\": 1,\n"), text)
}

func TestGenerateExampleJSONRequiredMode(t *testing.T) {
	t.Parallel()

	gotBytes, err := GenerateExampleJSON(readFixtureSchema(t), ExampleModeRequired)
	require.NoError(t, err)

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, gotBytes))
	assert.Equal(t, `{"image":{"repository":"nginx"},"service":{"port":80}}`, compact.String())
}

func TestGenerateExampleYAMLMatchesProjection(t *testing.T) {
	t.Parallel()

	tests := map[ExampleMode]string{
		ExampleModeAll:      "values.golden.yaml",
		ExampleModeRequired: "values.golden.required.yaml",
	}

	for mode, golden := range tests {
		got, err := GenerateExampleYAML(readFixtureSchema(t), mode)
		require.NoError(t, err)

		want, err := os.ReadFile(filepath.Join("testdata", golden))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), string(mode))
	}
}

func TestGenerateExampleUnknownMode(t *testing.T) {
	t.Parallel()

	_, err := GenerateExampleJSON(readFixtureSchema(t), "partial")
	require.ErrorIs(t, err, ErrUnknownExampleMode)

	_, err = GenerateExampleYAML(readFixtureSchema(t), "partial")
	require.ErrorIs(t, err, ErrUnknownExampleMode)
}

func TestExampleJSONKeepsHTMLCharacters(t *testing.T) {
	t.Parallel()

	doc := parseTestDocument(t, `{"properties": {"url": {"type": "string", "default": "<a&b>"}}}`)
	got, err := ExampleJSON(Walk(doc))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"url\": \"<a&b>\"\n}\n", string(got))
}

func TestExampleValueRoots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema string
		want   string
	}{
		{name: "empty object", schema: `{"type": "object"}`, want: "{}\n"},
		{name: "scalar", schema: `{"type": "boolean", "default": true}`, want: "true\n"},
		{name: "array", schema: `{"type": "array", "items": {"type": "string", "default": "x"}}`, want: "[\n  \"x\"\n]\n"},
		{name: "variants ignored", schema: `{"properties": {"v": {"anyOf": [{"type": "integer"}, {"type": "string"}]}}}`, want: "{\n  \"v\": 0\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExampleJSON(Walk(parseTestDocument(t, tt.schema)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
