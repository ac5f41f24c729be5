package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}

		out = append(out, m)
	}

	return out
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelDebug))

	l.Trace("hidden")
	l.Debug("debug")
	l.Info("info")
	l.WarnContext(t.Context(), "warn")
	l.Error("error", slog.Int("code", 7))

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}

	wantLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, line := range lines {
		if line["level"] != wantLevels[i] {
			t.Errorf("line %d level = %v, want %s", i, line["level"], wantLevels[i])
		}
	}

	if lines[3]["code"] != float64(7) {
		t.Errorf("code attribute = %v, want 7", lines[3]["code"])
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace)).Trace("deep")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["level"] != "TRACE" {
		t.Errorf("got %v, want one TRACE line", lines)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Error("nothing happens")
	l = l.With(slog.String("k", "v"))

	if l.Logger != nil {
		t.Error("With on zero Logger allocated a logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatJSON))
	child := base.With(slog.String("component", "render"))

	child.Info("one")
	base.Info("two")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if lines[0]["component"] != "render" {
		t.Errorf("child line missing attribute: %v", lines[0])
	}

	if _, ok := lines[1]["component"]; ok {
		t.Errorf("parent line has child attribute: %v", lines[1])
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatJSON))
	verbose := base.Wrap(WithLevel(LevelDebug))

	base.Debug("dropped")
	verbose.Debug("kept")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["msg"] != "kept" {
		t.Errorf("got %v, want only the wrapped debug line", lines)
	}

	if base.Level() != LevelInfo || verbose.Level() != LevelDebug {
		t.Errorf("levels = %v, %v", base.Level(), verbose.Level())
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	tests := []struct {
		layout string
		check  func(string) bool
	}{
		{"none", func(s string) bool { return s == "" }},
		{"RFC-3339", func(s string) bool {
			_, err := time.Parse(time.RFC3339, s)

			return err == nil
		}},
		{"2006", func(s string) bool { return len(s) == 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithFormat(FormatJSON), WithTimeLayout(tt.layout)).Info("x")

			lines := decodeLines(t, &buf)
			ts, _ := lines[0]["time"].(string)

			if !tt.check(ts) {
				t.Errorf("time = %q for layout %q", ts, tt.layout)
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithCaller(true)).Info("here")

	lines := decodeLines(t, &buf)

	src, ok := lines[0]["source"].(map[string]any)
	if !ok {
		t.Fatalf("missing source: %v", lines[0])
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(true), WithTimeLayout("none")).
		With(slog.String("component", "lang")).
		WithGroup("req")

	l.Warn("slow", slog.Int("ms", 1200))

	out := buf.String()

	for _, want := range []string{"WARN", "slow", "component", "lang", "req.ms", "1200"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output %q missing %q", out, want)
		}
	}

	if !strings.HasSuffix(out, "\n") || strings.HasPrefix(out, " ") {
		t.Errorf("pretty output not a single trimmed line: %q", out)
	}
}

func TestConfig(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithFormat(FormatJSON), WithLevel(LevelWarn))

	Info("dropped")
	Warn("kept")
	ErrorContext(t.Context(), "also kept")

	if lines := decodeLines(t, &buf); len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}
