package eval

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/stencil/json"
)

// SQL evaluates code as database queries.
//
// Each distinct query is prepared once. If the query refers to the
// placeholder (default [DefaultPlaceholder]) outside of string literals,
// the render context is bound to it as JSON text. The output is the text
// of every column of every row in order, with NULL as nothing.
//
// Failed preparations are not cached. Drivers that defer parsing until
// execution report syntax errors as [ErrQuery] rather than [ErrCompile].
//
// SQL is safe for concurrent use.
type SQL struct {
	config
	db    *sql.DB
	stmts sync.Map // uint64 -> *statement
}

type statement struct {
	once   sync.Once
	stmt   *sql.Stmt
	err    error
	usesCx bool
}

// NewSQL returns an evaluator running queries on db.
func NewSQL(db *sql.DB, opts ...Option) *SQL {
	return &SQL{config: makeConfig(opts...), db: db}
}

// Evaluate implements lang.Evaluator.
func (s *SQL) Evaluate(ctx context.Context, code string, data *json.Value) (string, error) {
	st, err := s.prepare(ctx, code)
	if err != nil {
		return "", err
	}

	var args []any
	if st.usesCx {
		args = append(args, json.Print(data))
	}

	rows, err := st.stmt.QueryContext(ctx, args...)
	if err != nil {
		return "", ErrQuery.With(slog.String("code", code)).Wrap(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", ErrQuery.Wrap(err)
	}

	var (
		sb   strings.Builder
		vals = make([]sql.RawBytes, len(cols))
		ptrs = make([]any, len(cols))
	)

	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", ErrQuery.With(slog.String("code", code)).Wrap(err)
		}

		for _, v := range vals {
			sb.Write(v)
		}
	}

	if err := rows.Err(); err != nil {
		return "", ErrQuery.With(slog.String("code", code)).Wrap(err)
	}

	return sb.String(), nil
}

func (s *SQL) prepare(ctx context.Context, code string) (*statement, error) {
	code = strings.TrimSpace(code)
	key := xxh3.HashString(code)

	value, hit := s.stmts.LoadOrStore(key, new(statement))
	st, _ := value.(*statement)

	s.logger.TraceContext(ctx, "sql lookup",
		slog.Uint64("key", key),
		slog.Bool("cache_hit", hit))

	st.once.Do(func() {
		st.usesCx = usesPlaceholder(code, s.placeholder)

		// The statement outlives this call, so it must not inherit the
		// caller's cancellation.
		st.stmt, st.err = s.db.PrepareContext(context.WithoutCancel(ctx), code)
		if st.err != nil {
			st.err = ErrCompile.With(slog.String("code", code)).Wrap(st.err)

			s.stmts.CompareAndDelete(key, st)
		}
	})

	return st, st.err
}

// Close releases all prepared statements. The database is not closed.
func (s *SQL) Close() error {
	var errs []error

	s.stmts.Range(func(key, value any) bool {
		if st, ok := value.(*statement); ok && st.stmt != nil {
			errs = append(errs, st.stmt.Close())
		}

		s.stmts.Delete(key)

		return true
	})

	return errors.Join(errs...)
}

// usesPlaceholder reports whether ph occurs in query outside of quotes,
// not followed by a character that would extend it ("$1" in "$10").
func usesPlaceholder(query, ph string) bool {
	var quote byte

	for i := 0; i < len(query); i++ {
		c := query[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}

		case c == '\'' || c == '"':
			quote = c

		case strings.HasPrefix(query[i:], ph):
			end := i + len(ph)
			if end == len(query) || !isIdentByte(query[end]) || !isIdentByte(ph[len(ph)-1]) {
				return true
			}
		}
	}

	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Statements returns the number of distinct queries prepared so far.
func (s *SQL) Statements() int {
	n := 0

	s.stmts.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
