package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/stencil/cli/cmd/repl"
	"github.com/ardnew/stencil/lang"
	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/pkg"
)

// Repl renders templates typed at an interactive prompt.
type Repl struct {
	SyntaxFlags `embed:""`

	Data   string `help:"JSON or YAML data document."                            short:"d" type:"existingfile"`
	Eval   string `default:"none" enum:"none,expr,sql" help:"Evaluator for code blocks (${enum})." short:"e"`
	SQLDSN string `help:"Database URL for --eval=sql (default in-memory SQLite)." name:"sql-dsn"`
	Cache  string `default:"${cache}" help:"Directory holding the input history." hidden:"" type:"path"`
}

// Run starts the REPL.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	syntax, err := r.load()
	if err != nil {
		return err
	}

	// Each line renders in its own arena.
	data, err := readData(r.Data, nil)
	if err != nil {
		return pkg.WrapError(err).With(slog.String("data", r.Data))
	}

	logger := log.Default()

	evaluator, closeEvaluator, err := newEvaluator(ctx, logger, r.Eval, r.SQLDSN)
	if err != nil {
		return err
	}
	defer closeEvaluator()

	opts := []lang.Option{lang.WithLogger(logger), lang.WithIncludeSyntax(syntax)}
	if evaluator != nil {
		opts = append(opts, lang.WithEvaluator(evaluator))
	}

	session := &repl.Session{
		Syntax:  syntax,
		Data:    data,
		Options: opts,
		Logger:  logger,
	}

	return repl.Run(ctx, session, r.Cache)
}
