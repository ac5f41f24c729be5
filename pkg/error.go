package pkg

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Error is an error value with an optional cause, source position, and
// attributes for structured logging.
//
// Packages declare sentinel values with [NewError] and derive contextual
// errors from them using [Error.With], [Error.WithPosition], and [Error.Wrap].
// Derived errors still match their sentinel with [errors.Is].
type Error struct {
	kind   *Error // sentinel this error was derived from, nil for sentinels
	err    error
	msg    string
	source string
	attrs  []slog.Attr
	pos    Position
	hasPos bool
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError converts any error into an *Error.
// If err already is (or wraps) an *Error, that value is returned.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

func (e *Error) derive() *Error {
	c := *e
	c.kind = e.root()

	return &c
}

// Error implements the error interface.
func (e *Error) Error() string {
	//   1. "<msg> at line L, column C: <err>"
	//   2. "<msg>: <err>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if e.hasPos {
			msg += " at " + e.pos.String()
		}

		part = append(part, msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e == t || e.root() == t.root()
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.hasPos {
		attrs = append(attrs,
			slog.Int("offset", e.pos.Offset),
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With returns a copy of e with additional structured logging attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(c.attrs, e.attrs...)
	c.attrs = append(c.attrs, attrs...)

	return c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.derive()
	c.pos = pos
	c.hasPos = true

	return c
}

// WithSource returns a copy of e that retains the input text it refers to,
// enabling [Error.Snippet].
func (e *Error) WithSource(source string) *Error {
	c := e.derive()
	c.source = source

	return c
}

// Position returns the source position of e, if any.
func (e *Error) Position() (Position, bool) { return e.pos, e.hasPos }

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Snippet returns the offending source line followed by a caret marking the
// error column. It is empty unless both a position and a source are known.
func (e *Error) Snippet() string {
	if !e.hasPos || e.source == "" {
		return ""
	}

	lines := strings.Split(e.source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[e.pos.Line-1])
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if e.pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", e.pos.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}
