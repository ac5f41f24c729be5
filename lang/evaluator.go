package lang

import (
	"context"

	"github.com/ardnew/stencil/json"
)

// Evaluator runs the code of Execute blocks.
//
// Evaluate is called once per Execute node in document order. data is the
// render context flattened into one object: the members of the document
// with each active iterator binding overlaid, innermost last.
type Evaluator interface {
	Evaluate(ctx context.Context, code string, data *json.Value) (string, error)
}

// EvaluatorFunc adapts a function to the [Evaluator] interface.
type EvaluatorFunc func(ctx context.Context, code string, data *json.Value) (string, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(
	ctx context.Context,
	code string,
	data *json.Value,
) (string, error) {
	return f(ctx, code, data)
}
