// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package valuesdoc

// Logger receives walk diagnostics.
type Logger interface {
	// Debugf logs detail useful when tracing reference expansion.
	Debugf(format string, args ...any)
	// Warnf logs recoverable schema problems.
	Warnf(format string, args ...any)
}

// nopLogger discards all messages.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}
