package eval

import (
	"maps"

	"github.com/ardnew/stencil/log"
)

// DefaultPlaceholder is the query parameter bound to the render context by
// [SQL] evaluators.
const DefaultPlaceholder = "$1"

// Option configures an evaluator.
type Option func(*config)

type config struct {
	builtins    map[string]any
	placeholder string
	logger      log.Logger
}

func makeConfig(opts ...Option) config {
	c := config{
		builtins:    builtins(),
		placeholder: DefaultPlaceholder,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithBuiltins adds variables and functions to the environment of [Expr]
// evaluators, replacing builtins of the same name.
func WithBuiltins(env map[string]any) Option {
	return func(c *config) { maps.Copy(c.builtins, env) }
}

// WithPlaceholder sets the query parameter that [SQL] evaluators bind to
// the render context, such as "?" or ":ctx".
func WithPlaceholder(p string) Option {
	return func(c *config) {
		if p != "" {
			c.placeholder = p
		}
	}
}

// WithLogger sets the logger for compile and cache tracing.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}
