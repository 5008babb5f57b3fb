// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

import (
	"fmt"
	"strings"
)

const (
	// ExampleModeAll walks all declared properties.
	ExampleModeAll ExampleMode = "all"
	// ExampleModeRequired walks required properties only.
	ExampleModeRequired ExampleMode = "required"
)

// ExampleMode configures walk property coverage.
type ExampleMode string

// defaultMaxDepth bounds nesting for documents without reference cycles
// but with pathological inline nesting.
const defaultMaxDepth = 64

// walkConfig is the resolved set of walk options.
type walkConfig struct {
	logger   Logger
	onIssue  func(error)
	mode     ExampleMode
	maxDepth int
}

// WalkOption configures Walk.
type WalkOption func(*walkConfig)

// WithLogger sets diagnostics logger. Nil keeps the no-op logger.
func WithLogger(logger Logger) WalkOption {
	return func(config *walkConfig) {
		if logger != nil {
			config.logger = logger
		}
	}
}

// WithIssueHandler sets a callback receiving every *ReferenceIssue met during a walk.
func WithIssueHandler(fn func(error)) WalkOption {
	return func(config *walkConfig) {
		config.onIssue = fn
	}
}

// WithMode selects property coverage. Unknown modes keep ExampleModeAll.
func WithMode(mode ExampleMode) WalkOption {
	return func(config *walkConfig) {
		if normalized, err := ParseExampleMode(string(mode)); err == nil {
			config.mode = normalized
		}
	}
}

// WithMaxDepth sets the maximum expanded nesting depth.
// If depth is not positive, the default (64) is kept.
func WithMaxDepth(depth int) WalkOption {
	return func(config *walkConfig) {
		if depth > 0 {
			config.maxDepth = depth
		}
	}
}

// newWalkConfig applies options over defaults.
func newWalkConfig(opts []WalkOption) walkConfig {
	config := walkConfig{
		logger:   nopLogger{},
		mode:     ExampleModeAll,
		maxDepth: defaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}

	return config
}

// ParseExampleMode validates and normalizes caller mode value.
// Empty input selects ExampleModeAll.
func ParseExampleMode(mode string) (ExampleMode, error) {
	normalized := ExampleMode(strings.ToLower(strings.TrimSpace(mode)))
	switch normalized {
	case "":
		return ExampleModeAll, nil
	case ExampleModeAll, ExampleModeRequired:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleMode, mode)
	}
}
