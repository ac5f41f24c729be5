// Package log is a small leveled logging layer over [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options
// applied at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.Info("rendered", slog.Int("bytes", n))
//
// Loggers are immutable values. [Logger.Wrap] derives a logger with changed
// options and [Logger.With] one with extra attributes; neither affects the
// original. The zero Logger discards all messages.
//
// Each level has a context-aware method and a variant that uses
// [DefaultContextProvider]. A package-level logger is available through the
// top-level functions and is reconfigured with [Config].
//
// Text output can be colorized for terminals with [WithPretty]; JSON output
// is never colorized.
package log
