package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// templateCache holds parsed templates keyed by source and syntax hash.
//
//nolint:gochecknoglobals
var templateCache sync.Map

// cacheEntry parses its template at most once.
type cacheEntry struct {
	once sync.Once
	tmpl *Template
	err  error
}

// ParseCached is like [Parse] but reuses the result of an earlier call with
// the same source and syntax, including a failed one. Only the logger of
// opts is used; cached templates are never charged against an arena.
func ParseCached(
	ctx context.Context,
	source string,
	syntax Syntax,
	opts ...Option,
) (*Template, error) {
	o := makeOptions(opts...)

	sourceHash := xxh3.HashString(source)
	syntaxHash := syntax.hash()
	key := sourceHash ^ syntaxHash

	value, hit := templateCache.LoadOrStore(key, new(cacheEntry))

	entry, _ := value.(*cacheEntry)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("syntax_hash", strconv.FormatUint(syntaxHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.tmpl, entry.err = Parse(ctx, source, syntax, WithLogger(o.logger))
	})

	return entry.tmpl, entry.err
}

// ClearCache discards all templates cached by [ParseCached].
func ClearCache() { templateCache.Clear() }
