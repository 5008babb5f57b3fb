// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Annotate returns a source excerpt of projected text pointing at path.
// Variant discriminators are dropped since variants are not projected.
func Annotate(text string, path Path, colored bool) ([]byte, error) {
	yamlPath, err := yamlPathFor(path.WithoutVariants())
	if err != nil {
		return nil, err
	}

	out, err := yamlPath.AnnotateSource([]byte(text), colored)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrAnnotatePath, path.String(), err)
	}

	return out, nil
}

// yamlPathFor converts Path into a go-yaml path expression.
func yamlPathFor(path Path) (*yaml.Path, error) {
	if path.IsRoot() {
		return nil, fmt.Errorf("%w: root path has no key", ErrAnnotatePath)
	}

	builder := (&yaml.PathBuilder{}).Root()
	for _, step := range path.Steps() {
		switch step.Kind {
		case StepIndex:
			builder = builder.Index(uint(step.Index))
		default:
			builder = builder.Child(step.Key)
		}
	}

	return builder.Build(), nil
}
