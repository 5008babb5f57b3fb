// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the change kind of one projected line.
type DiffOp int8

const (
	// DiffEqual marks an unchanged line.
	DiffEqual DiffOp = iota
	// DiffInsert marks a line present only in the newer projection.
	DiffInsert
	// DiffDelete marks a line present only in the older projection.
	DiffDelete
)

// DiffLine is one line of a projection diff.
type DiffLine struct {
	Text string
	Op   DiffOp
}

// ViewDiff compares two schema projections.
type ViewDiff struct {
	// Added lists catalog paths present only in the newer schema.
	Added []string
	// Removed lists catalog paths present only in the older schema.
	Removed []string
	Lines   []DiffLine
}

// Changed reports whether projections or catalogs differ.
func (diff ViewDiff) Changed() bool {
	if len(diff.Added) > 0 || len(diff.Removed) > 0 {
		return true
	}

	for _, line := range diff.Lines {
		if line.Op != DiffEqual {
			return true
		}
	}

	return false
}

// Diff compares catalogs and projected texts of two views.
// A nil or unloaded view compares as an empty projection.
func Diff(before, after *SchemaView) ViewDiff {
	out := ViewDiff{}
	beforeCatalog, beforeText := viewSnapshot(before)
	afterCatalog, afterText := viewSnapshot(after)

	for _, path := range afterCatalog.Strings() {
		if _, ok := beforeCatalog.Lookup(path); !ok {
			out.Added = append(out.Added, path)
		}
	}

	for _, path := range beforeCatalog.Strings() {
		if _, ok := afterCatalog.Lookup(path); !ok {
			out.Removed = append(out.Removed, path)
		}
	}

	out.Lines = diffLines(beforeText, afterText)
	return out
}

// viewSnapshot returns catalog and text of view, tolerating nil.
func viewSnapshot(view *SchemaView) (*Catalog, string) {
	if view == nil {
		return nil, ""
	}

	return view.Catalog(), view.Text()
}

// diffLines computes line-level diff of two texts.
func diffLines(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lines)

	out := make([]DiffLine, 0, len(diffs))
	for _, diff := range diffs {
		op := DiffEqual
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}

		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}

			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}

	return out
}
