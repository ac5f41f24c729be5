package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	doc := yaml.MapSlice{{Key: ConfigNamespace, Value: i.flagValues(ktx)}}

	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := atomic.WriteFile(confPath, bytes.NewReader(data)); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// flagValues collects the value of every configurable flag. Flags on the
// parsed command path contribute their current value; flags of other
// commands contribute their declared default.
func (i *Init) flagValues(ktx *kong.Context) yaml.MapSlice {
	var (
		values yaml.MapSlice
		seen   = make(map[string]bool)
	)

	add := func(flag *kong.Flag, value any) {
		if seen[flag.Name] || skipFlag(flag) {
			return
		}

		seen[flag.Name] = true

		if value = configValue(value); value != nil {
			values = append(values, yaml.MapItem{Key: flag.Name, Value: value})
		}
	}

	for _, flag := range ktx.Flags() {
		add(flag, ktx.FlagValue(flag))
	}

	var walk func(node *kong.Node)

	walk = func(node *kong.Node) {
		for _, flag := range node.Flags {
			if flag.Default != "" {
				add(flag, flag.Default)
			}
		}

		for _, child := range node.Children {
			walk(child)
		}
	}

	walk(ktx.Model.Node)

	return values
}

// skipFlag reports whether flag is excluded from configuration files.
func skipFlag(flag *kong.Flag) bool {
	if flag.Hidden {
		return true
	}

	switch flag.Name {
	case "help", "version", "force":
		return true
	}

	return strings.HasPrefix(flag.Name, profile.Tag+"-")
}

// configValue converts a flag value to a YAML scalar or list, or nil if the
// value is unset.
func configValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}

		return v
	case []string:
		if len(v) == 0 {
			return nil
		}

		return slices.Clone(v)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	default:
		// Named string types, such as enum flags with custom decoders.
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
			return configValue(rv.String())
		}

		return nil
	}
}
