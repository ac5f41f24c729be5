package lang

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/stencil/pkg"
)

// MaxKeywordLength is the maximum length in bytes of each [Syntax] field.
const MaxKeywordLength = 16

// Placeholder marks where the separator appears in [Syntax.JoinPattern].
const Placeholder = "…"

// Syntax defines the delimiters and keywords of a template dialect.
//
// Keywords are matched after the open brace and any whitespace following
// it. Surrounding whitespace in keyword fields is ignored when matching, and
// a keyword ending in a letter, digit, or underscore must be followed by
// whitespace or the close brace, so "for" never matches "format".
//
// A syntax with a SectionControl keyword is a keyword dialect: sections
// start with "{% for x in items %}" and end with any tag that begins with
// SectionPrefixEnd, such as "{% end %}".
//
// A syntax without one is a delimiter dialect: any tag that contains
// SectionSource after the optional SectionPrefixStart opens a section, as in
// "{{x#items}}", and the section ends at SectionPrefixEnd followed by the
// same source path, "{{/items}}".
type Syntax struct {
	OpenBrace           string `json:"open_brace"           yaml:"open_brace"`
	CloseBrace          string `json:"close_brace"          yaml:"close_brace"`
	SectionControl      string `json:"section_control"      yaml:"section_control"`
	SectionSource       string `json:"section_source"       yaml:"section_source"`
	SectionPrefixStart  string `json:"section_prefix_start" yaml:"section_prefix_start"`
	SectionPrefixEnd    string `json:"section_prefix_end"   yaml:"section_prefix_end"`
	JoinPattern         string `json:"join_pattern"         yaml:"join_pattern"`
	InterpolationPrefix string `json:"interpolation_prefix" yaml:"interpolation_prefix"`
	Include             string `json:"include"              yaml:"include"`
	Execute             string `json:"execute"              yaml:"execute"`
	NestingSeparator    string `json:"nesting_separator"    yaml:"nesting_separator"`
}

// KeywordSyntax returns the keyword-tag dialect:
//
//	Hello {% name %}!
//	{% for r in roles join ", " %}{% r %}{% end %}
//	{% include partials %}
//	{% exec SELECT 1 %}
func KeywordSyntax() Syntax {
	return Syntax{
		OpenBrace:        "{%",
		CloseBrace:       "%}",
		SectionControl:   "for ",
		SectionSource:    " in ",
		SectionPrefixEnd: "end",
		JoinPattern:      `join "` + Placeholder + `"`,
		Include:          "include ",
		Execute:          "exec ",
		NestingSeparator: ".",
	}
}

// DelimiterSyntax returns the delimiter-tag dialect:
//
//	Hello {{name}}!
//	{{r#roles#, #}}{{r}}{{/roles}}
//	{{>partials}}
//	{{!SELECT 1}}
func DelimiterSyntax() Syntax {
	return Syntax{
		OpenBrace:        "{{",
		CloseBrace:       "}}",
		SectionSource:    "#",
		SectionPrefixEnd: "/",
		JoinPattern:      "#" + Placeholder + "#",
		Include:          ">",
		Execute:          "!",
		NestingSeparator: ".",
	}
}

// SyntaxByName returns a preset by name: "keyword" or "delimiter".
func SyntaxByName(name string) (Syntax, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "keyword":
		return KeywordSyntax(), true
	case "delimiter":
		return DelimiterSyntax(), true
	default:
		return Syntax{}, false
	}
}

// LoadSyntax reads a YAML dialect definition from r. Fields absent from the
// document keep their value in base, and an empty document yields base.
// The result is validated.
func LoadSyntax(r io.Reader, base Syntax) (Syntax, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Syntax{}, ErrInvalidConfig.Wrap(err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Syntax{}, ErrInvalidConfig.Wrap(err)
	}

	s := base

	// A null document would zero s.
	if doc != nil {
		err := yaml.UnmarshalWithOptions(data, &s, yaml.DisallowUnknownField())
		if err != nil {
			return Syntax{}, ErrInvalidConfig.Wrap(err)
		}
	}

	if err := s.Validate(); err != nil {
		return Syntax{}, err
	}

	return s, nil
}

// Validate reports an [ErrInvalidConfig] error if a required field is
// empty, a field exceeds [MaxKeywordLength], or the braces are unusable.
func (s Syntax) Validate() error {
	for _, f := range s.fields() {
		if f.required && strings.TrimSpace(f.value) == "" {
			return invalidField(f.name, "required field is empty")
		}

		if len(f.value) > MaxKeywordLength {
			return invalidField(f.name, "longer than maximum keyword length").
				With(slog.Int("max", MaxKeywordLength))
		}
	}

	if strings.TrimSpace(s.OpenBrace) != s.OpenBrace {
		return invalidField("open_brace", "contains surrounding whitespace")
	}

	if strings.TrimSpace(s.CloseBrace) != s.CloseBrace {
		return invalidField("close_brace", "contains surrounding whitespace")
	}

	if s.OpenBrace == s.CloseBrace {
		return invalidField("close_brace", "same as open_brace")
	}

	if s.JoinPattern != "" && strings.Count(s.JoinPattern, Placeholder) != 1 {
		return invalidField("join_pattern", "must contain one "+Placeholder)
	}

	return nil
}

func invalidField(name, reason string) *pkg.Error {
	return ErrInvalidConfig.With(slog.String("field", name)).
		Wrap(errors.New(name + ": " + reason))
}

type field struct {
	name     string
	value    string
	required bool
}

func (s Syntax) fields() []field {
	return []field{
		{"open_brace", s.OpenBrace, true},
		{"close_brace", s.CloseBrace, true},
		{"section_control", s.SectionControl, false},
		{"section_source", s.SectionSource, true},
		{"section_prefix_start", s.SectionPrefixStart, false},
		{"section_prefix_end", s.SectionPrefixEnd, true},
		{"join_pattern", s.JoinPattern, false},
		{"interpolation_prefix", s.InterpolationPrefix, false},
		{"include", s.Include, false},
		{"execute", s.Execute, false},
		{"nesting_separator", s.NestingSeparator, true},
	}
}

// hash identifies s in cache keys.
func (s Syntax) hash() uint64 {
	var sb strings.Builder

	for _, f := range s.fields() {
		sb.WriteString(f.value)
		sb.WriteByte(0)
	}

	return xxh3.HashString(sb.String())
}

// keywordDialect reports whether sections are opened by a control keyword.
func (s Syntax) keywordDialect() bool {
	return strings.TrimSpace(s.SectionControl) != ""
}

// join returns the text before and after the placeholder of JoinPattern,
// with leading whitespace removed from the prefix.
func (s Syntax) join() (prefix, suffix string) {
	prefix, suffix, _ = strings.Cut(s.JoinPattern, Placeholder)

	return strings.TrimLeftFunc(prefix, unicode.IsSpace), suffix
}

// isWord reports whether s ends in a letter, digit, or underscore, in which
// case it must be followed by a boundary to match.
func isWord(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)

	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
