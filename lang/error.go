package lang

import "github.com/ardnew/stencil/pkg"

// Template parse errors. Each carries the position of the offending tag
// and the template source, so [pkg.Error.Snippet] can point at it.
var (
	ErrUnknownTag                 = pkg.NewError("unknown tag")
	ErrNestedInterpolation        = pkg.NewError("nested interpolation")
	ErrNestedInclude              = pkg.NewError("nested include")
	ErrNestedExecute              = pkg.NewError("nested execute")
	ErrUnexpectedInterpolationEnd = pkg.NewError("unterminated interpolation")
	ErrUnexpectedSectionEnd       = pkg.NewError("unexpected section end")
	ErrNoSourceInSection          = pkg.NewError("no source in section")
	ErrUnexpectedIncludeEnd       = pkg.NewError("unterminated include")
	ErrUnexpectedExecuteEnd       = pkg.NewError("unterminated execute")
)

// Configuration, input, and render errors.
var (
	ErrInvalidConfig    = pkg.NewError("invalid syntax configuration")
	ErrReadInput        = pkg.NewError("failed to read input")
	ErrEvaluate         = pkg.NewError("evaluation failed")
	ErrMaxDepthExceeded = pkg.NewError("maximum nesting depth exceeded")
)
