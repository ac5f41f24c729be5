package eval

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/stencil/json"
)

// Expr evaluates code as expr-lang expressions.
//
// The environment of each evaluation holds the builtins, the process
// environment as "env", and the members of the render context, which
// shadow both. Undefined variables evaluate to nil. The result is written
// the way interpolated values are: strings raw, numbers in general format,
// collections as JSON, and nil as nothing.
//
// Expr is safe for concurrent use.
type Expr struct {
	config
	programs sync.Map // uint64 -> *program
}

type program struct {
	once sync.Once
	prog *vm.Program
	err  error
}

// NewExpr returns an expr-lang evaluator.
func NewExpr(opts ...Option) *Expr {
	return &Expr{config: makeConfig(opts...)}
}

// Evaluate implements lang.Evaluator.
func (e *Expr) Evaluate(ctx context.Context, code string, data *json.Value) (string, error) {
	env := e.env(data)

	prog, err := e.compile(ctx, code, shadowed(env))
	if err != nil {
		return "", err
	}

	out, err := vm.Run(prog, env)
	if err != nil {
		return "", ErrRun.With(slog.String("code", code)).Wrap(err)
	}

	if str, ok := out.(string); ok {
		return str, nil
	}

	v, err := json.FromNative(out)
	if err != nil {
		return "", ErrRun.With(slog.String("code", code)).Wrap(err)
	}

	return v.Text(), nil
}

// compile returns the program for code with the expr-lang builtins named in
// disable turned off, so that environment members of the same name resolve
// as variables. Programs are cached per code and disabled set.
func (e *Expr) compile(ctx context.Context, code string, disable []string) (*vm.Program, error) {
	code = strings.TrimSpace(code)
	key := xxh3.HashString(code + "\x00" + strings.Join(disable, "\x00"))

	value, hit := e.programs.LoadOrStore(key, new(program))
	p, _ := value.(*program)

	e.logger.TraceContext(ctx, "expr lookup",
		slog.Uint64("key", key),
		slog.Bool("cache_hit", hit))

	p.once.Do(func() {
		opts := make([]expr.Option, 0, len(disable)+1)
		opts = append(opts, expr.AllowUndefinedVariables())

		for _, name := range disable {
			opts = append(opts, expr.DisableBuiltin(name))
		}

		p.prog, p.err = expr.Compile(code, opts...)
		if p.err != nil {
			p.err = ErrCompile.With(slog.String("code", code)).Wrap(p.err)
		}
	})

	return p.prog, p.err
}

func (e *Expr) env(data *json.Value) map[string]any {
	env := maps.Clone(e.builtins)
	env["env"] = processEnv()

	if m, ok := data.Native().(map[string]any); ok {
		maps.Copy(env, m)
	}

	return env
}

// shadowed returns the sorted names of expr-lang builtins defined by env.
func shadowed(env map[string]any) []string {
	var names []string

	for name := range env {
		if _, ok := builtin.Index[name]; ok {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// Programs returns the number of distinct code blocks compiled so far.
func (e *Expr) Programs() int {
	n := 0

	e.programs.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
