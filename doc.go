// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

/*
Package valuesdoc projects JSON Schema documents into annotated YAML values
examples and indexes every addressable location by a canonical path.

A schema is walked once into a depth-first sequence of annotated nodes.
The same sequence feeds the YAML projector, the path catalog and the JSON
example builder, so projected text, line index and search results always
agree with each other.

Walk a schema and print the projected values file:

	doc, err := valuesdoc.ParseFile("values.schema.json")
	if err != nil {
		return err
	}

	fmt.Print(valuesdoc.Project(valuesdoc.Walk(doc)))

Only required paths, with a custom recursion limit:

	text := valuesdoc.Project(valuesdoc.Walk(doc,
		valuesdoc.WithMode(valuesdoc.ExampleModeRequired),
		valuesdoc.WithMaxDepth(16),
	))

Search and filter paths:

	catalog := valuesdoc.BuildCatalog(valuesdoc.Walk(doc))
	for _, path := range catalog.Search("image") {
		fmt.Println(path)
	}

	entries, err := catalog.Filter(`required && depth < 2`)
	if err != nil {
		return err
	}

Coordinate a search box and a tree through one active path:

	view := valuesdoc.NewSchemaView()
	view.SetSchema(doc, "my-chart")
	view.Subscribe(func(change valuesdoc.ActivePathChange) {
		line, ok := view.Highlight()
		fmt.Println(change.Path, line, ok)
	})

	path, err := valuesdoc.ParsePath("image.tag")
	if err != nil {
		return err
	}

	view.Dispatch(valuesdoc.PathSelected{Path: path, Source: valuesdoc.SourceSearch})

Render a markdown reference of all paths:

	md, err := valuesdoc.RenderReference(view, valuesdoc.ReferenceOptions{
		TemplateName: "table",
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Custom templates range over .Entries and may use path helpers on .Canonical:
pathAnchor, pathLink, parentPath, isVariant, primaryPath and indent.

	{{ range .Entries }}{{ indent .Depth }}* {{ pathLink .Canonical }}
	{{ end }}
*/
package valuesdoc
