// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/valuesdoc

// valuesdoc projects JSON Schema into annotated YAML values files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/valuesdoc"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/valuesdoc"
	_buildTime string
)

// cliOptions describes valuesdoc CLI flags and subcommands.
type cliOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Print reference expansion details to stderr"`

	Version   versionCommand   `command:"version" description:"Print version information"`
	YAML      yamlCommand      `command:"yaml" description:"Project schema into annotated YAML values file"`
	JSON      jsonCommand      `command:"json" description:"Generate JSON example payload from schema"`
	Paths     pathsCommand     `command:"paths" description:"List, search and filter addressable value paths"`
	Reference referenceCommand `command:"reference" description:"Render markdown reference of all value paths"`
	Locate    locateCommand    `command:"locate" description:"Show projected YAML excerpt around one path"`
	Diff      diffCommand      `command:"diff" description:"Compare projections of two schemas"`
	Browse    browseCommand    `command:"browse" description:"Interactive search, tree and projection browser"`
	Template  templateCommand  `command:"template" description:"Print built-in markdown template"`
}

// schemaFlags groups schema loading flags shared by subcommands.
type schemaFlags struct {
	Definitions string `short:"d" long:"definitions" description:"Standalone definitions file merged into schema definitions"`
	Name        string `short:"n" long:"name" description:"Normalized chart name used in values file name (defaults to input file name)"`
	Mode        string `short:"m" long:"mode" description:"Example mode" choice:"all" choice:"required" default:"all"`
	MaxDepth    int    `long:"max-depth" description:"Nesting depth at which expansion stops with a placeholder" default:"64"`
}

// markdownRenderFlags groups markdown rendering flags.
type markdownRenderFlags struct {
	TemplatePath string `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
	Title        string `short:"T" long:"title" description:"Markdown document title" default:"values reference"`
	ListMarker   string `short:"l" long:"list-marker" description:"Unordered list marker for normalized descriptions" choice:"-" choice:"*" default:"*"`
	WrapWidth    int    `short:"w" long:"wrap" description:"Wrap width for plain text descriptions" default:"80"`
	Variants     bool   `long:"variants" description:"Include paths only reachable through oneOf/anyOf alternatives"`
}

// templateSelectFlags groups built-in template selection flags.
type templateSelectFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table" default:"list"`
}

// yamlCommand projects schema into annotated YAML.
type yamlCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input schema file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output file or directory (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	SchemaFlags schemaFlags `group:"Schema"`
	NoTitle     bool        `long:"no-title" description:"Do not prepend schema title comment"`
}

// Execute runs yaml subcommand.
func (command *yamlCommand) Execute(_ []string) error {
	return command.runner.runYAML(command.SchemaFlags, command.Args.Input, command.Args.Output, !command.NoTitle)
}

// jsonCommand generates JSON example payload.
type jsonCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input schema file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output JSON file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	SchemaFlags schemaFlags `group:"Schema"`
}

// Execute runs json subcommand.
func (command *jsonCommand) Execute(_ []string) error {
	return command.runner.runJSON(command.SchemaFlags, command.Args.Input, command.Args.Output)
}

// pathsCommand lists catalog paths.
type pathsCommand struct {
	runner *cliRunner
	Args   struct {
		Input string `positional-arg-name:"input" description:"Input schema file path (optional; stdin when omitted)"`
	} `positional-args:"yes"`

	SchemaFlags schemaFlags `group:"Schema"`
	Query       string      `short:"q" long:"query" description:"Case-insensitive substring search over canonical paths"`
	Where       string      `long:"where" description:"Filter expression, e.g. 'required && depth < 2'"`
	PrimaryOnly bool        `long:"primary-only" description:"Skip paths only reachable through oneOf/anyOf alternatives"`
	Long        bool        `short:"L" long:"long" description:"Print kind, type and required columns"`
}

// Execute runs paths subcommand.
func (command *pathsCommand) Execute(_ []string) error {
	return command.runner.runPaths(command.SchemaFlags, command.Args.Input, pathsQuery{
		query:       command.Query,
		where:       command.Where,
		primaryOnly: command.PrimaryOnly,
		long:        command.Long,
	})
}

// referenceCommand renders markdown reference.
type referenceCommand struct {
	runner *cliRunner
	Args   struct {
		Input  string `positional-arg-name:"input" description:"Input schema file path (optional; stdin when omitted)"`
		Output string `positional-arg-name:"output" description:"Output markdown file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	SchemaFlags   schemaFlags         `group:"Schema"`
	TemplateFlags templateSelectFlags `group:"Template Select"`
	RenderFlags   markdownRenderFlags `group:"Markdown Render"`
}

// Execute runs reference subcommand.
func (command *referenceCommand) Execute(_ []string) error {
	return command.runner.runReference(command.SchemaFlags, command.TemplateFlags, command.RenderFlags, command.Args.Input, command.Args.Output)
}

// locateCommand prints projected excerpt around a path.
type locateCommand struct {
	runner *cliRunner
	Args   struct {
		Input string `positional-arg-name:"input" description:"Input schema file path" required:"yes"`
		Path  string `positional-arg-name:"path" description:"Canonical value path (for example: image.tag)" required:"yes"`
	} `positional-args:"yes"`

	SchemaFlags schemaFlags `group:"Schema"`
}

// Execute runs locate subcommand.
func (command *locateCommand) Execute(_ []string) error {
	return command.runner.runLocate(command.SchemaFlags, command.Args.Input, command.Args.Path)
}

// diffCommand compares two schema projections.
type diffCommand struct {
	runner *cliRunner
	Args   struct {
		Old string `positional-arg-name:"old" description:"Older schema file path" required:"yes"`
		New string `positional-arg-name:"new" description:"Newer schema file path" required:"yes"`
	} `positional-args:"yes"`

	SchemaFlags schemaFlags `group:"Schema"`
	PathsOnly   bool        `short:"p" long:"paths" description:"Print only added and removed paths"`
	ExitCode    bool        `long:"exit-code" description:"Exit with status 1 when projections differ"`
}

// Execute runs diff subcommand.
func (command *diffCommand) Execute(_ []string) error {
	return command.runner.runDiff(command.SchemaFlags, command.Args.Old, command.Args.New, command.PathsOnly, command.ExitCode)
}

// browseCommand runs terminal browser.
type browseCommand struct {
	runner *cliRunner
	Args   struct {
		Input string `positional-arg-name:"input" description:"Input schema file path" required:"yes"`
	} `positional-args:"yes"`

	SchemaFlags schemaFlags `group:"Schema"`
}

// Execute runs browse subcommand.
func (command *browseCommand) Execute(_ []string) error {
	return command.runner.runBrowse(command.SchemaFlags, command.Args.Input)
}

// templateCommand exports built-in markdown template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateFlags templateSelectFlags `group:"Template Select"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateFlags.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	printVersionInfo(command.runner.stdout)
	return nil
}

// errProjectionsDiffer signals diff --exit-code result without printing a message.
var errProjectionsDiffer = errors.New("projections differ")

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	options     *cliOptions
	openScreen  screenFactory
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "valuesdoc"
	}

	runner := cliRunner{
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		openScreen:  newTerminalScreen,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	if errors.Is(err, errProjectionsDiffer) {
		return 1
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	runner.options = options
	options.Version.runner = runner
	options.YAML.runner = runner
	options.JSON.runner = runner
	options.Paths.runner = runner
	options.Reference.runner = runner
	options.Locate.runner = runner
	options.Diff.runner = runner
	options.Browse.runner = runner
	options.Template.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	templateNames := "`" + strings.Join(valuesdoc.BuiltinTemplateNames(), "` or `") + "`"
	descriptions := map[string]string{
		"yaml": strings.TrimSpace(fmt.Sprintf(`
Project JSON Schema into annotated YAML values file.
Titles and descriptions become comments; required keys are marked.
When output is a directory, the file is named values-<name>.yaml.

Examples:
> $ %s yaml values.schema.json > values.yaml
> $ %s yaml --mode required --name my-chart values.schema.json out/
`, programName, programName)),
		"paths": strings.TrimSpace(fmt.Sprintf(`
List canonical value paths in schema order.
Variant paths use oneOf[n]/anyOf[n] discriminators.

Examples:
> $ %s paths -q image values.schema.json
> $ %s paths --where 'required && depth < 2' values.schema.json
`, programName, programName)),
		"reference": strings.TrimSpace(fmt.Sprintf(`
Render markdown reference of value paths (%s template).

Examples:
> $ %s reference values.schema.json > VALUES.md
> $ %s reference -t table --variants values.schema.json docs/values.md
`, templateNames, programName, programName)),
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in markdown template text (%s).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > list.gotmpl
> $ %s template -t table templates/table.gotmpl
`, templateNames, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

func printVersionInfo(out io.Writer) {
	_, _ = fmt.Fprintf(out, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
