package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ANSI escape sequences used by the pretty handler.
const (
	ansiReset   = "\033[0m"
	ansiFaint   = "\033[2m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized key=value lines for interactive terminals.
//
// Attributes given to WithAttrs are formatted once and prepended to the
// attributes of every record.
type prettyHandler struct {
	opts    slog.HandlerOptions
	mu      *sync.Mutex
	w       io.Writer
	preface []byte
	groups  []string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	h := &prettyHandler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}

	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		h.writeAttr(&buf, nil, slog.Time(slog.TimeKey, r.Time.Round(0)))
	}

	h.writeAttr(&buf, nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			h.writeAttr(&buf, nil, slog.String(slog.SourceKey,
				filepath.Base(src.File)+":"+strconv.Itoa(src.Line)))
		}
	}

	h.writeAttr(&buf, nil, slog.String(slog.MessageKey, r.Message))

	buf.Write(h.preface)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(bytes.TrimPrefix(buf.Bytes(), []byte{' '}))

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h

	var buf bytes.Buffer

	buf.Write(h.preface)

	// each attribute is written with a leading space
	for _, a := range attrs {
		h.writeAttr(&buf, h.groups, a)
	}

	c.preface = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	if rep := h.opts.ReplaceAttr; rep != nil && a.Value.Kind() != slog.KindGroup {
		a = rep(groups, a)
	}

	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return
		}

		sub := groups
		if a.Key != "" {
			sub = append(slices.Clip(groups), a.Key)
		}

		for _, m := range members {
			h.writeAttr(buf, sub, m)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(ansiFaint)

	for _, g := range groups {
		buf.WriteString(g)
		buf.WriteByte('.')
	}

	buf.WriteString(a.Key)
	buf.WriteString(ansiReset)
	buf.WriteByte('=')

	h.writeValue(buf, a.Key, a.Value)
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, key string, v slog.Value) {
	color := ansiCyan

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		color = ansiYellow
	case slog.KindBool:
		color = ansiMagenta
	case slog.KindTime:
		color = ansiFaint
	case slog.KindAny:
		if l, ok := v.Any().(slog.Level); ok {
			color = levelColor(l)
		} else if _, ok := v.Any().(error); ok {
			color = ansiRed
		}
	}

	if key == slog.LevelKey && v.Kind() == slog.KindString {
		color = levelColor(slog.Level(ParseLevel(v.String())))
	}

	buf.WriteString(color)
	buf.WriteString(formatValue(v))
	buf.WriteString(ansiReset)
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return ansiRed
	case l >= slog.LevelWarn:
		return ansiYellow
	case l >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiBlue
	}
}

func formatValue(v slog.Value) string {
	var s string

	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = v.String()
		}
	default:
		s = v.String()
	}

	if s == "" || needsQuote(s) {
		return strconv.Quote(s)
	}

	return s
}

func needsQuote(s string) bool {
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == 0x7f {
			return true
		}
	}

	return false
}
