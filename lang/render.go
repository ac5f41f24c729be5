package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/json"
	"github.com/ardnew/stencil/log"
	"github.com/ardnew/stencil/pkg"
)

// Render renders t against data and returns the output.
//
// Output is built in the arena given by [WithArena], or in a fresh arena of
// [arena.DefaultCapacity], and fails with [arena.ErrOutOfMemory] rather than
// truncating when it does not fit. The returned string is a copy and
// remains valid after the arena is reset.
func (t *Template) Render(ctx context.Context, data *json.Value, opts ...Option) (string, error) {
	o := makeOptions(opts...)

	a := o.arena
	if a == nil {
		a = arena.New(arena.DefaultCapacity)
		defer a.Release()
	}

	buf := arena.NewBuffer(a)

	if err := t.render(ctx, buf, data, o); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderTo renders t against data and writes the output to w as it is
// produced.
func (t *Template) RenderTo(
	ctx context.Context,
	w io.Writer,
	data *json.Value,
	opts ...Option,
) error {
	sw, ok := w.(io.StringWriter)
	if !ok {
		sw = stringWriter{w}
	}

	return t.render(ctx, sw, data, makeOptions(opts...))
}

// RenderString parses a template and a JSON document and renders one
// against the other.
func RenderString(
	ctx context.Context,
	template string,
	syntax Syntax,
	jsonText string,
	opts ...Option,
) (string, error) {
	t, err := Parse(ctx, template, syntax, opts...)
	if err != nil {
		return "", err
	}

	o := makeOptions(opts...)

	var jopts []json.Option
	if o.arena != nil {
		jopts = append(jopts, json.WithArena(o.arena))
	}

	data, err := json.Parse(jsonText, jopts...)
	if err != nil {
		return "", err
	}

	return t.Render(ctx, data, opts...)
}

func (t *Template) render(ctx context.Context, w io.StringWriter, data *json.Value, o options) error {
	r := &renderer{
		opts:   o,
		out:    w,
		logger: o.logger,
		scope:  scope{base: data},
		source: t.source,
	}

	r.logger.TraceContext(ctx, "render start", slog.Int("nodes", len(t.Nodes)))

	if err := r.nodes(ctx, t.Nodes); err != nil {
		return err
	}

	r.logger.TraceContext(ctx, "render complete", slog.Int("bytes", r.written))

	return nil
}

type stringWriter struct{ io.Writer }

func (w stringWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// renderer holds the state of one render.
type renderer struct {
	opts    options
	out     io.StringWriter
	logger  log.Logger
	scope   scope
	source  string // source of the template being rendered, for errors
	depth   int    // include nesting
	written int
}

func (r *renderer) write(s string) error {
	if s == "" {
		return nil
	}

	n, err := r.out.WriteString(s)
	r.written += n

	return err
}

func (r *renderer) nodes(ctx context.Context, nodes []*Node) error {
	for _, n := range nodes {
		if err := r.node(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) node(ctx context.Context, n *Node) error {
	switch n.Kind {
	case KindText:
		return r.write(n.Content)

	case KindInterpolate:
		return r.write(r.resolve(ctx, n.Path).Text())

	case KindSection:
		return r.section(ctx, n)

	case KindInclude:
		return r.include(ctx, n)

	case KindExecute:
		return r.execute(ctx, n)

	default:
		return nil
	}
}

// section renders n's body according to the kind of its source value:
// once per array element, object member ({key, value}), or string rune
// with the iterator bound to it; once per number with the iterator bound
// to the number; once without a binding for true; never for false, null,
// or an unresolved source.
func (r *renderer) section(ctx context.Context, n *Node) error {
	v := r.resolve(ctx, n.Path)

	switch v.Kind() {
	case json.KindArray:
		items := v.Items()

		return r.iterate(ctx, n, len(items), func(i int) *json.Value { return items[i] })

	case json.KindObject:
		members := v.Members()

		return r.iterate(ctx, n, len(members), func(i int) *json.Value {
			return json.Object(
				json.Pair("key", json.String(members[i].Key)),
				json.Pair("value", members[i].Value),
			)
		})

	case json.KindString:
		runes := []rune(v.Decoded())

		return r.iterate(ctx, n, len(runes), func(i int) *json.Value {
			return json.Text(string(runes[i]))
		})

	case json.KindNumber:
		return r.iterate(ctx, n, 1, func(int) *json.Value { return v })

	case json.KindBool:
		if v.Bool() {
			return r.nodes(ctx, n.Body)
		}
	}

	return nil
}

// iterate renders n's body count times, binding the iterator to each
// element in turn and writing the join separator between iterations.
// The binding is removed after each iteration, including failed ones.
func (r *renderer) iterate(ctx context.Context, n *Node, count int, at func(int) *json.Value) error {
	for i := range count {
		if i > 0 && n.Joined {
			if err := r.write(n.Join); err != nil {
				return err
			}
		}

		if err := r.bound(ctx, n.Iterator, at(i), n.Body); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) bound(ctx context.Context, name string, v *json.Value, body []*Node) error {
	if name == "" {
		return r.nodes(ctx, body)
	}

	r.scope.push(name, v)
	defer r.scope.pop()

	return r.nodes(ctx, body)
}

// include renders the entries of the value at n's path. A template entry is
// parsed with the include syntax and rendered against its own context, or
// the current scope if it has none. A content entry is written exactly as an
// interpolation of it would be, so strings keep their escape sequences.
// Template strings are source text and are decoded before parsing.
func (r *renderer) include(ctx context.Context, n *Node) error {
	v := r.resolve(ctx, n.Path)

	var entries []*json.Value

	switch v.Kind() {
	case json.KindArray:
		entries = v.Items()
	case json.KindObject:
		entries = []*json.Value{v}
	default:
		return nil
	}

	if r.depth >= r.opts.maxDepth {
		return r.errorAt(ErrMaxDepthExceeded, n).
			With(slog.Int("max_depth", r.opts.maxDepth))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, e := range entries {
		if tv, ok := e.Field("template"); ok && tv.Kind() == json.KindString {
			if err := r.includeTemplate(ctx, tv.Decoded(), e); err != nil {
				return err
			}

			continue
		}

		if cv, ok := e.Field("content"); ok {
			if err := r.write(cv.Text()); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *renderer) includeTemplate(ctx context.Context, source string, entry *json.Value) error {
	t, err := ParseCached(ctx, source, r.opts.includeSyntax, WithLogger(r.logger))
	if err != nil {
		return err
	}

	saved, savedSource := r.scope, r.source
	defer func() { r.scope, r.source = saved, savedSource }()

	if cv, ok := entry.Field("context"); ok && !cv.IsNull() {
		r.scope = scope{base: cv}
	}

	r.source = t.source
	r.depth++
	defer func() { r.depth-- }()

	return r.nodes(ctx, t.Nodes)
}

// execute passes n's code and the flattened scope to the evaluator.
func (r *renderer) execute(ctx context.Context, n *Node) error {
	if r.opts.evaluator == nil {
		r.logger.DebugContext(ctx, "execute skipped: no evaluator",
			slog.String("code", n.Content))

		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	r.logger.TraceContext(ctx, "execute", slog.String("code", n.Content))

	out, err := r.opts.evaluator.Evaluate(ctx, n.Content, r.scope.flatten())
	if err != nil {
		return r.errorAt(ErrEvaluate, n).
			With(slog.String("code", n.Content)).
			Wrap(err)
	}

	return r.write(out)
}

// resolve looks up p in the current scope. Unresolvable paths yield nil,
// which renders as the empty string.
func (r *renderer) resolve(ctx context.Context, p Path) *json.Value {
	if !p.Valid() {
		return nil
	}

	segs := p.Segments()
	if len(segs) == 0 {
		return r.scope.base
	}

	v, ok := r.scope.lookup(segs[0].Name)
	if !ok {
		r.unresolved(ctx, p, segs[0].Name)

		return nil
	}

	v, ok = index(v, segs[0].Indices)

	for _, seg := range segs[1:] {
		if !ok {
			break
		}

		if v, ok = v.Field(seg.Name); ok {
			v, ok = index(v, seg.Indices)
		}
	}

	if !ok {
		r.unresolved(ctx, p, "")

		return nil
	}

	return v
}

func index(v *json.Value, indices []int) (*json.Value, bool) {
	ok := true

	for _, i := range indices {
		if v, ok = v.Index(i); !ok {
			break
		}
	}

	return v, ok
}

// unresolved logs a path that did not resolve, suggesting the closest
// visible name when the root itself is unknown.
func (r *renderer) unresolved(ctx context.Context, p Path, root string) {
	if !r.logger.Enabled(ctx, log.LevelDebug) {
		return
	}

	attrs := []slog.Attr{slog.String("path", p.String())}

	if root != "" {
		if m := fuzzy.Find(root, r.scope.names()); len(m) > 0 {
			attrs = append(attrs, slog.String("suggestion", m[0].Str))
		}
	}

	r.logger.DebugContext(ctx, "unresolved path", attrs...)
}

func (r *renderer) errorAt(kind *pkg.Error, n *Node) *pkg.Error {
	return kind.WithPosition(pkg.PositionOf(r.source, n.Offset)).WithSource(r.source)
}
