package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stencil/log"
)

// logFormat configures the package logger format as kong parses
// --log-format, so that parse errors are already reported in that format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the package logger level as kong parses --log-level.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevels}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormats}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                            help:"Set timestamp format ('none' to omit)."`
	Caller     bool      `default:"false"                              help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                               help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":   log.DefaultLevel.String(),
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":  log.DefaultFormat.String(),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the parsed flags to the package logger. The returned
// function reports the end of the run at trace level.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	logger := log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	logger.DebugContext(ctx, "logger initialized",
		slog.String("level", logger.Level().String()),
		slog.String("format", logger.Format().String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// logFlag applies one logging flag found by [logConfig.scan].
type logFlag struct {
	boolean bool
	apply   func(f *logConfig, value string)
}

// logFlags maps flag names, without the leading "--", to their handlers.
// Negated boolean forms ("--no-log-pretty") resolve to the same entry.
var logFlags = map[string]logFlag{ //nolint:gochecknoglobals
	"log-level": {apply: func(f *logConfig, v string) {
		_ = f.Level.UnmarshalText([]byte(v))
	}},
	"log-format": {apply: func(f *logConfig, v string) {
		_ = f.Format.UnmarshalText([]byte(v))
	}},
	"log-time-layout": {apply: func(f *logConfig, v string) {
		f.TimeLayout = v
		log.Config(log.WithTimeLayout(v))
	}},
	"log-caller": {boolean: true, apply: func(f *logConfig, v string) {
		f.Caller = v == "true"
		log.Config(log.WithCaller(f.Caller))
	}},
	"log-pretty": {boolean: true, apply: func(f *logConfig, v string) {
		f.Pretty = v == "true"
		log.Config(log.WithPretty(f.Pretty))
	}},
}

// scan applies logging flags from args before kong parses them, so that
// the logger is configured regardless of where the flags appear and before
// any command runs. Scanning stops at "--".
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, ok := strings.CutPrefix(arg, "--")
		if !ok {
			continue
		}

		name, value, assigned := strings.Cut(name, "=")

		negated := false
		if rest, ok := strings.CutPrefix(name, "no-"); ok {
			name, negated = rest, true
		}

		flag, ok := logFlags[name]
		if !ok || (negated && !flag.boolean) {
			continue
		}

		if flag.boolean {
			b := true
			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				b = v
			}

			flag.apply(f, strconv.FormatBool(b != negated))

			continue
		}

		if !assigned {
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				continue
			}

			i++
			value = args[i]
		}

		flag.apply(f, value)
	}
}
