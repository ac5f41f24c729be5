package cmd

import "github.com/ardnew/stencil/pkg"

var (
	ErrReadInput    = pkg.NewError("read input")
	ErrWriteOutput  = pkg.NewError("write output")
	ErrWriteConfig  = pkg.NewError("write configuration file")
	ErrFileExists   = pkg.NewError("file exists (use --force to overwrite)")
	ErrStdinReused  = pkg.NewError("stdin used for more than one input")
	ErrOpenDatabase = pkg.NewError("open database")
	ErrCheckFailed  = pkg.NewError("templates contain errors")
	ErrMarshal      = pkg.NewError("marshal document")
)
