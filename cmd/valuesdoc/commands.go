// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/woozymasta/valuesdoc"
)

// pathsQuery selects catalog entries printed by the paths command.
type pathsQuery struct {
	query       string
	where       string
	primaryOnly bool
	long        bool
}

// runYAML writes projected YAML to stdout, file or directory.
func (runner *cliRunner) runYAML(schema schemaFlags, inputPath, outputPath string, withTitle bool) error {
	view, err := runner.loadView(schema, inputPath)
	if err != nil {
		return err
	}

	text := view.Text()
	if title := view.TitleLine(); withTitle && title != "" {
		text = title + "\n" + text
	}

	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		outputPath = filepath.Join(outputPath, view.Filename())
	}

	return runner.writeOutput(outputPath, "values", []byte(text))
}

// runJSON writes example payload as pretty JSON.
func (runner *cliRunner) runJSON(schema schemaFlags, inputPath, outputPath string) error {
	view, err := runner.loadView(schema, inputPath)
	if err != nil {
		return err
	}

	data, err := valuesdoc.ExampleJSON(slices.Values(view.Nodes()))
	if err != nil {
		return fmt.Errorf("generate json example: %w", err)
	}

	return runner.writeOutput(outputPath, "json example", data)
}

// runPaths prints catalog paths matching query and filter.
func (runner *cliRunner) runPaths(schema schemaFlags, inputPath string, query pathsQuery) error {
	view, err := runner.loadView(schema, inputPath)
	if err != nil {
		return err
	}

	entries, err := view.Catalog().Filter(query.where)
	if err != nil {
		return err
	}

	matched := make(map[string]struct{})
	for _, path := range view.Search(query.query) {
		matched[path.String()] = struct{}{}
	}

	palette := newPalette(runner.stdout)
	for _, entry := range entries {
		if _, ok := matched[entry.Canonical]; !ok {
			continue
		}

		if query.primaryOnly && !entry.Primary {
			continue
		}

		line := palette.highlight(entry.Canonical, query.query)
		if query.long {
			line = fmt.Sprintf("%s\t%s\t%s\t%s", line, entry.Kind, orDash(entry.Type), requiredMark(entry.Required))
		}

		if _, err := fmt.Fprintln(runner.stdout, line); err != nil {
			return fmt.Errorf("write paths to stdout: %w", err)
		}
	}

	return nil
}

// runReference renders markdown reference and writes result to stdout or file.
func (runner *cliRunner) runReference(schema schemaFlags, templateFlags templateSelectFlags, render markdownRenderFlags, inputPath, outputPath string) error {
	view, err := runner.loadView(schema, inputPath)
	if err != nil {
		return err
	}

	renderOptions := valuesdoc.ReferenceOptions{
		Title:           render.Title,
		TemplateName:    templateFlags.TemplateName,
		WrapWidth:       render.WrapWidth,
		ListMarker:      render.ListMarker,
		IncludeVariants: render.Variants,
	}

	if render.TemplatePath != "" {
		customTemplate, err := os.ReadFile(render.TemplatePath)
		if err != nil {
			return fmt.Errorf("read template file %q: %w", render.TemplatePath, err)
		}

		renderOptions.TemplateText = string(customTemplate)
	}

	rendered, err := valuesdoc.RenderReference(view, renderOptions)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	return runner.writeOutput(outputPath, "markdown", []byte(rendered))
}

// runLocate selects path and prints projected excerpt around its line.
func (runner *cliRunner) runLocate(schema schemaFlags, inputPath, rawPath string) error {
	view, err := runner.loadView(schema, inputPath)
	if err != nil {
		return err
	}

	path, err := valuesdoc.ParsePath(rawPath)
	if err != nil {
		return err
	}

	if !view.Catalog().Contains(path) {
		runner.logger().Warnf("path %q is not declared by schema", path.String())
	}

	view.Dispatch(valuesdoc.PathSelected{Path: path, Source: valuesdoc.SourceSearch})
	if line, ok := view.Highlight(); ok {
		runner.logger().Debugf("%s: line %d", view.Filename(), line)
	}

	excerpt, err := valuesdoc.Annotate(view.Text(), path, isTerminal(runner.stdout))
	if err != nil {
		return err
	}

	if _, err := runner.stdout.Write(ensureNewline(excerpt)); err != nil {
		return fmt.Errorf("write excerpt to stdout: %w", err)
	}

	return nil
}

// runDiff prints projection diff of two schemas.
func (runner *cliRunner) runDiff(schema schemaFlags, oldPath, newPath string, pathsOnly, exitCode bool) error {
	before, err := runner.loadView(schema, oldPath)
	if err != nil {
		return err
	}

	after, err := runner.loadView(schema, newPath)
	if err != nil {
		return err
	}

	diff := valuesdoc.Diff(before, after)
	palette := newPalette(runner.stdout)

	var out strings.Builder
	if pathsOnly {
		for _, path := range diff.Removed {
			out.WriteString(palette.removed.Sprint("- "+path) + "\n")
		}

		for _, path := range diff.Added {
			out.WriteString(palette.added.Sprint("+ "+path) + "\n")
		}
	} else {
		for _, line := range diff.Lines {
			switch line.Op {
			case valuesdoc.DiffInsert:
				out.WriteString(palette.added.Sprint("+"+line.Text) + "\n")
			case valuesdoc.DiffDelete:
				out.WriteString(palette.removed.Sprint("-"+line.Text) + "\n")
			default:
				out.WriteString(" " + line.Text + "\n")
			}
		}
	}

	if _, err := io.WriteString(runner.stdout, out.String()); err != nil {
		return fmt.Errorf("write diff to stdout: %w", err)
	}

	if exitCode && diff.Changed() {
		return errProjectionsDiffer
	}

	return nil
}

// runBrowse runs interactive browser on terminal screen.
func (runner *cliRunner) runBrowse(schema schemaFlags, inputPath string) error {
	view, err := runner.loadView(schema, inputPath)
	if err != nil {
		return err
	}

	screen, err := runner.openScreen()
	if err != nil {
		return fmt.Errorf("open terminal screen: %w", err)
	}

	return newBrowser(view, screen).run()
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := valuesdoc.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(outputPath, "template", []byte(tpl))
}

// loadView reads schema input and projects it with shared schema flags.
func (runner *cliRunner) loadView(schema schemaFlags, inputPath string) (*valuesdoc.SchemaView, error) {
	schemaBytes, sourcePath, err := runner.readSchemaInput(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read schema input: %w", err)
	}

	var definitionBytes []byte
	if schema.Definitions != "" {
		definitionBytes, err = os.ReadFile(schema.Definitions)
		if err != nil {
			return nil, fmt.Errorf("read definitions file %q: %w", schema.Definitions, err)
		}
	}

	mode, err := valuesdoc.ParseExampleMode(schema.Mode)
	if err != nil {
		return nil, err
	}

	name := schema.Name
	if name == "" {
		name = normalizedName(sourcePath)
	}

	view := valuesdoc.NewSchemaView(valuesdoc.WithWalkOptions(
		valuesdoc.WithLogger(runner.logger()),
		valuesdoc.WithMode(mode),
		valuesdoc.WithMaxDepth(schema.MaxDepth),
	))

	if err := view.Load(schemaBytes, name, definitionBytes); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", sourcePath, err)
	}

	return view, nil
}

// readSchemaInput reads schema from file path or stdin and returns source marker.
func (runner *cliRunner) readSchemaInput(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read schema file %q: %w", path, err)
		}

		return data, path, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read schema from stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "", errors.New("read schema from stdin: empty input")
	}

	return data, "(stdin)", nil
}

// writeOutput writes data to stdout when path is empty, or to file.
func (runner *cliRunner) writeOutput(path, what string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write %s to stdout: %w", what, err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s file %q: %w", what, path, err)
	}

	return nil
}

// logger returns stderr logger honoring --verbose.
func (runner *cliRunner) logger() valuesdoc.Logger {
	verbose := runner.options != nil && runner.options.Verbose
	return newCLILogger(runner.stderr, verbose)
}

// normalizedName derives chart name from schema file name,
// e.g. "my-chart.schema.json" becomes "my-chart".
func normalizedName(sourcePath string) string {
	if sourcePath == "" || sourcePath == "(stdin)" {
		return ""
	}

	name := strings.ToLower(filepath.Base(sourcePath))
	for _, suffix := range []string{".json", ".yaml", ".yml", ".schema", ".values"} {
		name = strings.TrimSuffix(name, suffix)
	}

	if name == "values" {
		return ""
	}

	return strings.Trim(strings.TrimPrefix(name, "values-"), ".-_ ")
}

// ensureNewline appends newline when data does not end with one.
func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return data
	}

	return append(data, '\n')
}

// orDash renders empty column as "-".
func orDash(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

// requiredMark renders required column.
func requiredMark(required bool) string {
	if required {
		return "required"
	}

	return "optional"
}
