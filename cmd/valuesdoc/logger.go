// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// cliLogger writes walk diagnostics to stderr.
type cliLogger struct {
	out     io.Writer
	warning *color.Color
	debug   *color.Color
	verbose bool
}

// newCLILogger creates logger colored only when out is a terminal.
func newCLILogger(out io.Writer, verbose bool) *cliLogger {
	logger := &cliLogger{
		out:     out,
		verbose: verbose,
		warning: color.New(color.FgYellow),
		debug:   color.New(color.Faint),
	}

	if !isTerminal(out) {
		logger.warning.DisableColor()
		logger.debug.DisableColor()
	}

	return logger
}

// Warnf writes one warning line.
func (logger *cliLogger) Warnf(format string, args ...any) {
	_, _ = logger.warning.Fprintln(logger.out, "warning: "+fmt.Sprintf(format, args...))
}

// Debugf writes one debug line when verbose output is enabled.
func (logger *cliLogger) Debugf(format string, args ...any) {
	if !logger.verbose {
		return
	}

	_, _ = logger.debug.Fprintln(logger.out, "debug: "+fmt.Sprintf(format, args...))
}

// palette colors stdout output of paths and diff commands.
type palette struct {
	match   *color.Color
	added   *color.Color
	removed *color.Color
}

// newPalette creates palette colored only when out is a terminal.
func newPalette(out io.Writer) palette {
	colors := palette{
		match:   color.New(color.FgCyan, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}

	if !isTerminal(out) {
		colors.match.DisableColor()
		colors.added.DisableColor()
		colors.removed.DisableColor()
	}

	return colors
}

// highlight colors the first case-insensitive occurrence of query in text.
func (colors palette) highlight(text, query string) string {
	if query == "" {
		return text
	}

	index := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if index < 0 || index+len(query) > len(text) {
		return text
	}

	return text[:index] + colors.match.Sprint(text[index:index+len(query)]) + text[index+len(query):]
}

// isTerminal reports whether out is an interactive terminal.
func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
