package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/stencil/lang"
	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/pkg"
)

// AST prints the syntax tree of a template in the chosen format.
type AST struct {
	Text ASTText `cmd:"" default:"withargs" help:"Print as an indented outline (default)."`
	JSON ASTJSON `cmd:""                    help:"Print as JSON."                          name:"json"`
	YAML ASTYAML `cmd:""                    help:"Print as YAML."                          name:"yaml"`
}

// TemplateSource is the template input shared by the AST subcommands.
type TemplateSource struct {
	SyntaxFlags `embed:""`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"template"`
}

func (a TemplateSource) parse(ctx context.Context, format string) (*lang.Template, error) {
	syntax, err := a.load()
	if err != nil {
		return nil, err
	}

	src, err := openInput(a.Template)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmpl, err := lang.ParseReader(ctx, src, syntax, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, pkg.WrapError(err).
			With(slog.String("format", format), slog.String("template", a.Template))
	}

	return tmpl, nil
}

// ASTText prints the syntax tree as an indented outline.
type ASTText struct {
	TemplateSource `embed:""`

	Color bool `help:"Colorize node kinds." negatable:""`
}

// Run executes the ast text command.
func (c *ASTText) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tmpl, err := c.parse(ctx, "text")
	if err != nil {
		return err
	}

	if !c.Color {
		return tmpl.Print(stdout)
	}

	return printColor(stdout, tmpl)
}

// kindStyle colors the leading kind word of each outline line.
//
//nolint:gochecknoglobals
var kindStyle = map[lang.Kind]lipgloss.Style{
	lang.KindText:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	lang.KindInterpolate: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	lang.KindSection:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	lang.KindInclude:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	lang.KindExecute:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
}

// printColor writes the outline of [lang.Template.Print] with node kinds
// styled by [kindStyle].
func printColor(w io.Writer, tmpl *lang.Template) error {
	var sb strings.Builder

	tmpl.Walk(func(n *lang.Node, depth int) bool {
		kind, rest, _ := strings.Cut(n.Describe(), " ")

		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(kindStyle[n.Kind].Render(kind))

		if rest != "" {
			sb.WriteByte(' ')
			sb.WriteString(rest)
		}

		sb.WriteByte('\n')

		return true
	})

	_, err := io.WriteString(w, sb.String())

	return err
}

// ASTJSON prints the syntax tree as JSON.
type ASTJSON struct {
	TemplateSource `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`
}

// Run executes the ast json command.
func (c *ASTJSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tmpl, err := c.parse(ctx, "json")
	if err != nil {
		return err
	}

	return tmpl.FormatJSON(stdout, strings.Repeat(" ", c.Indent))
}

// ASTYAML prints the syntax tree as YAML.
type ASTYAML struct {
	TemplateSource `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`
}

// Run executes the ast yaml command.
func (c *ASTYAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tmpl, err := c.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return tmpl.FormatYAML(ctx, stdout, c.Indent)
}
