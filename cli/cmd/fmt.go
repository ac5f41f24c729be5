package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stencil/json"
	"github.com/ardnew/stencil/pkg"
)

// Fmt reads a data document and writes it in the chosen format.
type Fmt struct {
	JSON FmtJSON `cmd:"" default:"withargs" help:"Format as JSON (default)." name:"json"`
	YAML FmtYAML `cmd:""                    help:"Format as YAML."           name:"yaml"`
}

// DataSource is the document input and output shared by the fmt
// subcommands.
type DataSource struct {
	Indent int    `default:"2" help:"Indent width for formatted output"    short:"i"`
	Output string `            help:"Write output to file instead of stdout." short:"o" type:"path"`

	Source string `arg:"" default:"-" help:"JSON or YAML document, or '-' for stdin." name:"source"`
}

func (d DataSource) read(format string) (*json.Value, error) {
	v, err := readData(d.Source, nil)
	if err != nil {
		return nil, pkg.WrapError(err).
			With(slog.String("format", format), slog.String("source", d.Source))
	}

	return v, nil
}

// FmtJSON formats a document as indented JSON.
type FmtJSON struct {
	DataSource `embed:""`

	Compact bool `help:"Print on a single line." short:"c"`
}

// Run executes the fmt json command.
func (f *FmtJSON) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := f.read("json")
	if err != nil {
		return err
	}

	text := json.Print(v)
	if !f.Compact && f.Indent > 0 {
		text = json.Indent(v, strings.Repeat(" ", f.Indent))
	}

	return writeOutput(f.Output, strings.NewReader(text+"\n"))
}

// FmtYAML formats a document as YAML.
type FmtYAML struct {
	DataSource `embed:""`
}

// Run executes the fmt yaml command.
func (f *FmtYAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	v, err := f.read("yaml")
	if err != nil {
		return err
	}

	out, err := json.MarshalYAML(ctx, v,
		yaml.Indent(max(f.Indent, 1)),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrMarshal.With(slog.String("format", "yaml")).Wrap(err)
	}

	return writeOutput(f.Output, bytes.NewReader(out))
}
