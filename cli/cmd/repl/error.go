package repl

import "github.com/ardnew/stencil/pkg"

var (
	ErrOutOfBounds    = pkg.NewError("index out of range")
	ErrUnknownCommand = pkg.NewError("unknown command")
	ErrNoTemplate     = pkg.NewError("no template entered yet")
	ErrUnresolvedPath = pkg.NewError("path does not resolve")
	ErrUnknownSyntax  = pkg.NewError("unknown syntax preset")
)
