package lang

import (
	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/log"
)

// DefaultMaxDepth bounds section nesting while parsing and include nesting
// while rendering.
const DefaultMaxDepth = 100

// Option configures parsing and rendering.
type Option func(*options)

type options struct {
	arena         *arena.Arena
	evaluator     Evaluator
	logger        log.Logger
	includeSyntax Syntax
	maxDepth      int
	hasInclude    bool
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	if !o.hasInclude {
		o.includeSyntax = KeywordSyntax()
	}

	return o
}

// WithArena charges parsed nodes against a and renders output into it.
// Without an arena, parsing is unbounded and each render uses a fresh
// arena of [arena.DefaultCapacity].
func WithArena(a *arena.Arena) Option {
	return func(o *options) { o.arena = a }
}

// WithEvaluator sets the evaluator that runs Execute blocks.
// Without one, Execute blocks render as empty text.
func WithEvaluator(e Evaluator) Option {
	return func(o *options) { o.evaluator = e }
}

// WithLogger sets the logger for parse and render tracing.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithIncludeSyntax sets the dialect used to parse included templates.
// The default is [KeywordSyntax].
func WithIncludeSyntax(s Syntax) Option {
	return func(o *options) {
		o.includeSyntax = s
		o.hasInclude = true
	}
}
