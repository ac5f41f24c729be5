package eval

import (
	"os"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/stencil/json"
)

// builtins returns the default environment of [Expr] evaluators.
// expr-lang's own builtins (upper, lower, join, trim, ...) remain available.
func builtins() map[string]any {
	return map[string]any{
		"json":  toJSON,
		"quote": json.Quote,
		"mung": map[string]any{
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
		},
	}
}

// toJSON formats v as compact JSON.
func toJSON(v any) (string, error) {
	jv, err := json.FromNative(v)
	if err != nil {
		return "", err
	}

	return json.Print(jv), nil
}

// mungPrefix prepends items to the path list key, dropping duplicates.
func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixIf is mungPrefix keeping only the items accepted by keep.
func mungPrefixIf(key string, keep func(string) bool, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(keep),
	).String()
}

// processEnv returns the process environment as a map.
func processEnv() map[string]any {
	environ := os.Environ()
	env := make(map[string]any, len(environ))

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}

	return env
}
