package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/eval"
	"github.com/ardnew/stencil/lang"
	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/pkg"
)

// Render renders a template against a data document.
type Render struct {
	SyntaxFlags `embed:""`

	Data      string `help:"JSON or YAML data document, or '-' for stdin."            short:"d"`
	Eval      string `default:"none"           enum:"none,expr,sql"                   help:"Evaluator for code blocks (${enum})." short:"e"`
	SQLDSN    string `help:"Database URL for --eval=sql (default in-memory SQLite)."  name:"sql-dsn"`
	ArenaSize int    `default:"${arenaSize}"   help:"Memory budget in bytes for one render."`
	Output    string `help:"Write output to file instead of stdout."                  short:"o"                                   type:"path"`
	Markdown  bool   `help:"Convert the rendered output from Markdown to HTML."`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Template == stdinSource && r.Data == stdinSource {
		return ErrStdinReused
	}

	syntax, err := r.load()
	if err != nil {
		return err
	}

	a := arena.New(r.ArenaSize)
	defer a.Release()

	logger := log.Default()

	src, err := openInput(r.Template)
	if err != nil {
		return err
	}
	defer src.Close()

	tmpl, err := lang.ParseReader(ctx, src, syntax,
		lang.WithArena(a),
		lang.WithLogger(logger),
	)
	if err != nil {
		return pkg.WrapError(err).With(slog.String("template", r.Template))
	}

	data, err := readData(r.Data, a)
	if err != nil {
		return pkg.WrapError(err).With(slog.String("data", r.Data))
	}

	evaluator, closeEvaluator, err := r.evaluator(ctx, logger)
	if err != nil {
		return err
	}
	defer closeEvaluator()

	opts := []lang.Option{
		lang.WithArena(a),
		lang.WithLogger(logger),
		lang.WithIncludeSyntax(syntax),
	}
	if evaluator != nil {
		opts = append(opts, lang.WithEvaluator(evaluator))
	}

	out, err := tmpl.Render(ctx, data, opts...)
	if err != nil {
		return pkg.WrapError(err).With(slog.String("template", r.Template))
	}

	logger.DebugContext(ctx, "rendered",
		slog.String("template", r.Template),
		slog.Any("arena", a.Metrics()),
	)

	if !r.Markdown {
		return writeOutput(r.Output, strings.NewReader(out))
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(out), &html); err != nil {
		return ErrWriteOutput.With(slog.String("format", "html")).Wrap(err)
	}

	return writeOutput(r.Output, &html)
}

// evaluator builds the evaluator selected by --eval and a function
// releasing its resources.
func (r *Render) evaluator(ctx context.Context, logger log.Logger) (lang.Evaluator, func(), error) {
	return newEvaluator(ctx, logger, r.Eval, r.SQLDSN)
}

// newEvaluator builds the named evaluator, nil for "none". The sql
// evaluator connects to the database at dsn.
func newEvaluator(
	ctx context.Context,
	logger log.Logger,
	name, dsn string,
) (lang.Evaluator, func(), error) {
	switch name {
	case "expr":
		return eval.NewExpr(eval.WithLogger(logger)), func() {}, nil

	case "sql":
		db, err := openDatabase(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		s := eval.NewSQL(db.DB,
			eval.WithLogger(logger),
			eval.WithPlaceholder(db.placeholder),
		)

		return s, func() {
			_ = s.Close()
			_ = db.Close()
		}, nil

	default:
		return nil, func() {}, nil
	}
}
