// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"errors"
	"fmt"
)

var (
	// ErrReadSchemaFile is returned when schema file loading fails.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrDecodeSchema is returned when schema JSON/YAML decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrDecodeDefinitions is returned when standalone definitions decoding fails.
	ErrDecodeDefinitions = errors.New("decode definitions")
	// ErrSchemaRootType is returned when schema root is not object or boolean.
	ErrSchemaRootType = errors.New("schema root must be object or boolean")
	// ErrUnresolvedReference reports a $ref that does not point into the document.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrCyclicReference reports a $ref already being expanded on the current walk path.
	ErrCyclicReference = errors.New("cyclic reference")
	// ErrParsePath is returned when a canonical path string cannot be parsed.
	ErrParsePath = errors.New("parse path")
	// ErrFilterExpression is returned when a catalog filter expression fails to compile or run.
	ErrFilterExpression = errors.New("catalog filter expression")
	// ErrUnknownExampleMode is returned when example generation mode is not supported.
	ErrUnknownExampleMode = errors.New("unknown example mode")
	// ErrEncodeExampleJSON is returned when generated example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
	// ErrAnnotatePath is returned when a path cannot be located in projected text.
	ErrAnnotatePath = errors.New("annotate path")
	// ErrExecuteMarkdownTemplate is returned when markdown template execution fails.
	ErrExecuteMarkdownTemplate = errors.New("execute markdown template")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseBuiltinTemplate is returned when built-in template parsing fails.
	ErrParseBuiltinTemplate = errors.New("parse built-in template")
	// ErrNoSchema is returned by view operations that need a loaded schema.
	ErrNoSchema = errors.New("no schema loaded")
)

// ReferenceIssue describes a recoverable $ref problem met during a walk.
// The walk replaces the location with a terminal placeholder and continues.
type ReferenceIssue struct {
	// Path is the canonical path of the location holding the reference.
	Path string
	// Ref is the raw $ref value.
	Ref string
	// Cyclic is true when the reference re-enters a definition already being expanded.
	Cyclic bool
}

// Error returns a human-readable issue message.
func (issue *ReferenceIssue) Error() string {
	location := issue.Path
	if location == "" {
		location = "(root)"
	}

	if issue.Cyclic {
		return fmt.Sprintf("%s: %q at %s", ErrCyclicReference, issue.Ref, location)
	}

	return fmt.Sprintf("%s: %q at %s", ErrUnresolvedReference, issue.Ref, location)
}

// Unwrap exposes the sentinel matching the issue kind.
func (issue *ReferenceIssue) Unwrap() error {
	if issue.Cyclic {
		return ErrCyclicReference
	}

	return ErrUnresolvedReference
}
