package cmd

import (
	"log/slog"
	"os"

	"github.com/ardnew/stencil/lang"
	"github.com/ardnew/stencil/pkg"
)

// SyntaxFlags selects the template syntax of a command.
type SyntaxFlags struct {
	Syntax     string `default:"keyword" enum:"${syntaxEnum}" help:"Template syntax preset (${enum})." short:"s"`
	SyntaxFile string `                                        help:"YAML file overriding fields of the syntax preset." type:"existingfile"`
}

// load returns the selected preset with the overrides of SyntaxFile.
func (f SyntaxFlags) load() (lang.Syntax, error) {
	base, ok := lang.SyntaxByName(f.Syntax)
	if !ok {
		return lang.Syntax{}, lang.ErrInvalidConfig.
			With(slog.String("syntax", f.Syntax))
	}

	if f.SyntaxFile == "" {
		return base, nil
	}

	file, err := os.Open(f.SyntaxFile)
	if err != nil {
		return lang.Syntax{}, ErrReadInput.Wrap(err)
	}
	defer file.Close()

	s, err := lang.LoadSyntax(file, base)
	if err != nil {
		return lang.Syntax{}, pkg.WrapError(err).
			With(slog.String("file", f.SyntaxFile))
	}

	return s, nil
}
