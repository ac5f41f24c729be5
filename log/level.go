package log

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levelName = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase name of l. Levels between the named ones are
// rendered by slog, e.g. "INFO+2".
func (l Level) String() string {
	if name, ok := levelName[l]; ok {
		return name
	}

	return slog.Level(l).String()
}

// Levels returns an iterator over the names of all defined log levels in
// increasing severity.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a log level name. Besides "trace", any string accepted by
// [slog.Level.UnmarshalText] is valid. Unrecognized input yields
// [DefaultLevel].
func ParseLevel(s string) Level {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

var formatName = []string{
	FormatText: "text",
	FormatJSON: "json",
}

// String returns the name of f.
func (f Format) String() string {
	if int(f) >= 0 && int(f) < len(formatName) {
		return formatName[f]
	}

	return "unknown"
}

// Formats returns an iterator over the names of all log formats.
func Formats() iter.Seq[string] {
	return slices.Values(formatName)
}

// ParseFormat parses a log format name ("text" or "json").
// Unrecognized input yields [DefaultFormat].
func ParseFormat(s string) Format {
	if i := slices.Index(formatName, strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return Format(i)
	}

	return DefaultFormat
}
