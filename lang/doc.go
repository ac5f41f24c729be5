// Package lang parses and renders text templates written in a configurable
// syntax.
//
// A [Syntax] defines the tag delimiters and keywords of a dialect. Two
// presets are provided, [KeywordSyntax] and [DelimiterSyntax], and custom
// dialects can be loaded from YAML with [LoadSyntax].
//
// # Tags
//
// Templates consist of literal text and tags. In the keyword dialect:
//
//	{% user.name %}                     interpolation
//	{% for r in roles join ", " %}…{% end %}   section
//	{% include partials %}              include
//	{% exec SELECT count(*) FROM t %}   execute
//
// Paths separate members with the nesting separator and index arrays with
// brackets, as in "users[0].roles". Missing and null values interpolate as
// the empty string; strings are written raw, numbers in general format,
// and arrays and objects as compact JSON.
//
// A section renders its body once per element of an array, member of an
// object (bound as {"key": …, "value": …}), or rune of a string, with the
// iterator name bound to the element for the duration of that iteration
// only. True renders the body once without a binding; false, null, and
// missing values render nothing.
//
// An include renders each entry of an array (or a single object): entries
// with a "template" member are parsed with the include syntax and rendered
// against their "context" member or the enclosing scope, and entries with a
// "content" member are written as text.
//
// The code of an execute tag is passed verbatim to the [Evaluator] given by
// [WithEvaluator], together with the flattened render context. Braces
// inside quoted strings in the code do not end the tag. Without an
// evaluator execute tags render as nothing.
//
// # Usage
//
//	t, err := lang.Parse(ctx, source, lang.KeywordSyntax())
//	if err != nil {
//		return err
//	}
//
//	out, err := t.Render(ctx, data, lang.WithEvaluator(ev))
//
// Parse errors match one of the package's sentinel errors with
// [errors.Is] and carry the position of the offending tag.
package lang
