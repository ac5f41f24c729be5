package repl

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/stencil/json"
	"github.com/ardnew/stencil/lang"
	"github.com/ardnew/stencil/log"
)

// Session renders template lines against a fixed document.
type Session struct {
	Syntax  lang.Syntax
	Data    *json.Value
	Options []lang.Option // passed to [lang.Template.Render]
	Logger  log.Logger

	last *lang.Template
}

// Render parses line as a template and renders it against the document.
func (s *Session) Render(ctx context.Context, line string) (string, error) {
	tmpl, err := lang.ParseCached(ctx, line, s.Syntax, lang.WithLogger(s.Logger))
	if err != nil {
		return "", err
	}

	s.last = tmpl

	return tmpl.Render(ctx, s.Data, s.Options...)
}

func helpMessage() string {
	return `
: Commands (prefix with ':'):

  help            Print this cruft
  keys [PATH]     List the members of the document at PATH
  ast             Print the syntax tree of the last template
  syntax [NAME]   Show or switch the syntax preset (keyword, delimiter)
  clear           Clear screen
  quit            Exit REPL

Usage:
  Type a template to render it against the document
  Completions of document paths appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Command runs the control command name with args and returns its output.
// The clear and quit commands are handled by the terminal model.
func (s *Session) Command(ctx context.Context, name string, args []string) (string, error) {
	s.Logger.TraceContext(ctx, "repl command",
		slog.String("command", name),
		slog.Any("args", args))

	switch name {
	case "h", "help":
		return helpMessage(), nil

	case "k", "keys":
		return s.keys(strings.Join(args, ""))

	case "a", "ast":
		if s.last == nil {
			return "", ErrNoTemplate
		}

		var sb strings.Builder
		if err := s.last.Print(&sb); err != nil {
			return "", err
		}

		return strings.TrimSuffix(sb.String(), "\n"), nil

	case "s", "syntax":
		if len(args) == 0 {
			return s.syntaxName(), nil
		}

		syntax, ok := lang.SyntaxByName(args[0])
		if !ok {
			return "", ErrUnknownSyntax.With(slog.String("name", args[0]))
		}

		s.Syntax = syntax

		return "syntax: " + args[0], nil

	default:
		return "", ErrUnknownCommand.With(slog.String("command", name))
	}
}

func (s *Session) keys(path string) (string, error) {
	names, ok := s.members(path)
	if !ok {
		return "", ErrUnresolvedPath.With(slog.String("path", path))
	}

	return strings.Join(names, "\n"), nil
}

// members returns the names addressable below path: member keys of an
// object, bracketed indices of an array, or nothing for a scalar.
func (s *Session) members(path string) ([]string, bool) {
	v, ok := lang.ParsePath(path, s.Syntax.NestingSeparator).Lookup(s.Data)
	if !ok {
		return nil, false
	}

	switch v.Kind() {
	case json.KindObject:
		names := make([]string, 0, v.Len())

		for _, key := range v.Keys() {
			if name := json.String(key).Decoded(); !slices.Contains(names, name) {
				names = append(names, name)
			}
		}

		return names, true

	case json.KindArray:
		names := make([]string, v.Len())
		for i := range names {
			names[i] = "[" + strconv.Itoa(i) + "]"
		}

		return names, true

	default:
		return nil, true
	}
}

func (s *Session) syntaxName() string {
	for _, name := range []string{"keyword", "delimiter"} {
		if preset, _ := lang.SyntaxByName(name); preset == s.Syntax {
			return "syntax: " + name
		}
	}

	return "syntax: custom"
}
