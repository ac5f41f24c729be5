// Package eval provides evaluators for the Execute blocks of templates.
//
// [Expr] runs code as an expr-lang expression against the render context.
// [SQL] runs code as a query on a database, passing the render context as a
// JSON argument. Both compile each distinct code block once and reuse the
// result, keyed by a hash of the trimmed code.
//
//	ev := eval.NewExpr()
//	out, err := t.Render(ctx, data, lang.WithEvaluator(ev))
package eval
