package lang

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tagKind identifies what a tag does.
type tagKind uint8

const (
	tagInterpolate tagKind = iota
	tagSection
	tagEnd
	tagInclude
	tagExecute
)

// rule maps a keyword to the kind of tag it introduces.
type rule struct {
	keyword  string
	kind     tagKind
	boundary bool   // keyword must be followed by whitespace or the close brace
	needs    string // text that must occur in the tag after the keyword
}

// dispatch is an ordered table of tag rules. The first rule that matches a
// tag's content wins.
type dispatch struct {
	rules []rule
	close string
}

// newDispatch builds the rule table for s. Longer keywords come first;
// among keywords of equal length those requiring a boundary come first,
// and an empty interpolation prefix is always tried last.
func newDispatch(s Syntax) dispatch {
	add := func(rules []rule, keyword string, kind tagKind, needs string) []rule {
		keyword = strings.TrimSpace(keyword)

		return append(rules, rule{
			keyword:  keyword,
			kind:     kind,
			boundary: isWord(keyword),
			needs:    strings.TrimSpace(needs),
		})
	}

	rules := make([]rule, 0, 5)

	if s.keywordDialect() {
		rules = add(rules, s.SectionControl, tagSection, "")
	} else {
		rules = add(rules, s.SectionPrefixStart, tagSection, s.SectionSource)
	}

	rules = add(rules, s.SectionPrefixEnd, tagEnd, "")

	if strings.TrimSpace(s.Include) != "" {
		rules = add(rules, s.Include, tagInclude, "")
	}

	if strings.TrimSpace(s.Execute) != "" {
		rules = add(rules, s.Execute, tagExecute, "")
	}

	rules = add(rules, s.InterpolationPrefix, tagInterpolate, "")

	slices.SortStableFunc(rules, func(a, b rule) int {
		if c := cmp.Compare(len(b.keyword), len(a.keyword)); c != 0 {
			return c
		}

		if a.boundary != b.boundary {
			if a.boundary {
				return -1
			}

			return 1
		}

		switch {
		case a.needs != "" && b.needs == "":
			return -1
		case a.needs == "" && b.needs != "":
			return 1
		}

		return compareBool(a.kind == tagInterpolate, b.kind == tagInterpolate)
	})

	return dispatch{rules: rules, close: s.CloseBrace}
}

// match returns the rule for a tag whose content (after the open brace and
// leading whitespace) starts at rest.
func (d dispatch) match(rest string) (rule, bool) {
	content := rest
	if i := strings.Index(rest, d.close); i >= 0 {
		content = rest[:i]
	}

	for _, r := range d.rules {
		if !strings.HasPrefix(rest, r.keyword) {
			continue
		}

		if r.boundary && !d.atBoundary(rest[len(r.keyword):]) {
			continue
		}

		if r.needs != "" {
			if len(r.keyword) > len(content) ||
				!strings.Contains(content[len(r.keyword):], r.needs) {
				continue
			}
		}

		return r, true
	}

	return rule{}, false
}

// keywords returns the non-empty keywords of the table.
func (d dispatch) keywords() []string {
	out := make([]string, 0, len(d.rules))

	for _, r := range d.rules {
		if r.keyword != "" {
			out = append(out, r.keyword)
		}
	}

	return out
}

func (d dispatch) atBoundary(s string) bool {
	if s == "" || strings.HasPrefix(s, d.close) {
		return true
	}

	r, _ := utf8.DecodeRuneInString(s)

	return unicode.IsSpace(r)
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
