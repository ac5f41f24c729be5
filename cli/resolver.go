package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] reading flag values from the
// mapping named name in a YAML document.
//
// Flag names with hyphens may be written with underscores:
//
//	config:
//	  log_level: debug
//	  syntax: delimiter
//	  eval: expr
//
// Command-line flags override config file values. A missing namespace or a
// malformed document yields an empty configuration.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil && !errors.Is(err, io.EOF) {
			return config{}, nil //nolint:nilerr
		}

		ns, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		return flatten(ns), nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten converts YAML scalars to the values kong expects. Numbers become
// strings so that kong parses them with the flag's own mapper.
func flatten(ns map[string]any) config {
	result := make(config, len(ns))

	for key, value := range ns {
		result[key] = scalar(value)
	}

	return result
}

func scalar(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = scalar(item)
		}

		return items
	default:
		return v
	}
}
