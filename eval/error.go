package eval

import "github.com/ardnew/stencil/pkg"

var (
	ErrCompile = pkg.NewError("compilation failed")
	ErrRun     = pkg.NewError("execution failed")
	ErrQuery   = pkg.NewError("query failed")
)
