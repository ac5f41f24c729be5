// Package cli contains the command line interface for stencil.
//
// # Usage
//
//	stencil [render] TEMPLATE [--data FILE] [--syntax keyword|delimiter]
//	stencil check TEMPLATE...
//	stencil ast {text|json|yaml} TEMPLATE
//	stencil fmt {json|yaml} DATA
//	stencil repl [--data FILE]
//	stencil init [--force]
//
// Render is the default command, so "stencil page.tmpl -d data.json" renders
// page.tmpl. A TEMPLATE or DATA of "-" reads stdin.
//
// # Configuration
//
// Flag defaults are read from two files in the user configuration
// directory (e.g. ~/.config/stencil):
//
//   - config.json: a flat JSON object keyed by flag name
//   - config: a YAML document whose "config" mapping holds flag values,
//     with underscores allowed in place of hyphens
//
// "stencil init" writes the current flag values to the YAML file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/stencil/pprof)
//
// # Examples
//
//	# Render with the delimiter dialect and expr-lang code blocks
//	stencil page.tmpl -d data.yaml --syntax delimiter --eval expr
//
//	# Run code blocks as queries against a PostgreSQL database
//	stencil report.tmpl -d data.json --eval sql --sql-dsn postgres://localhost/app
//
//	# Try templates interactively against a document
//	stencil repl -d data.json
//
//	# Debug logging with CPU profiling
//	stencil --log-level=debug --pprof-mode=cpu page.tmpl
package cli
