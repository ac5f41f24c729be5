package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/stencil/lang"
	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/pkg"
)

// Check parses templates and reports the first error in each.
type Check struct {
	SyntaxFlags `embed:""`

	Templates []string `arg:"" default:"-" help:"Template files or '-' for stdin." name:"template"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	syntax, err := c.load()
	if err != nil {
		return err
	}

	failed := 0

	for _, path := range uniquePaths(c.Templates) {
		if err := c.check(ctx, stdout, path, syntax); err != nil {
			failed++
		}
	}

	if failed > 0 {
		return ErrCheckFailed.With(slog.Int("failed", failed))
	}

	return nil
}

// check parses the template at path, writing a diagnostic to w on failure.
func (c *Check) check(ctx context.Context, w io.Writer, path string, syntax lang.Syntax) error {
	src, err := openInput(path)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", path, err)

		return err
	}
	defer src.Close()

	_, err = lang.ParseReader(ctx, src, syntax, lang.WithLogger(log.Default()))
	if err == nil {
		log.DebugContext(ctx, "template ok", slog.String("template", path))

		return nil
	}

	fmt.Fprintln(w, diagnostic(path, err))

	return err
}

// diagnostic formats err as "path:line:column: message" followed by the
// source snippet when one is known.
func diagnostic(path string, err error) string {
	var perr *pkg.Error
	if !errors.As(err, &perr) {
		return path + ": " + err.Error()
	}

	pos, ok := perr.Position()
	if !ok {
		return path + ": " + err.Error()
	}

	return fmt.Sprintf("%s:%d:%d: %v\n%s", path, pos.Line, pos.Column, err, perr.Snippet())
}
