package lang

import (
	"strconv"
	"strings"

	"github.com/ardnew/stencil/json"
)

// Path is a parsed reference to a value, such as "users[0].name".
//
// Segments are separated by the syntax's nesting separator. Each segment
// names an object member and may be followed by bracketed array indices.
// An empty leading name refers to the whole document, so "[1]" is the
// second element of an array document and the empty path is the document
// itself.
type Path struct {
	raw      string
	segments []Segment
	invalid  bool
}

// Segment is one element of a [Path].
type Segment struct {
	Name    string
	Indices []int
}

// ParsePath parses raw using sep as the nesting separator.
// A malformed index makes the path unresolvable rather than an error.
func ParsePath(raw, sep string) Path {
	p := Path{raw: raw}

	if raw == "" {
		return p
	}

	parts := []string{raw}
	if sep != "" {
		parts = strings.Split(raw, sep)
	}

	p.segments = make([]Segment, 0, len(parts))

	for _, part := range parts {
		seg, ok := parseSegment(part)
		if !ok {
			p.invalid = true
		}

		p.segments = append(p.segments, seg)
	}

	return p
}

func parseSegment(s string) (Segment, bool) {
	i := strings.IndexByte(s, '[')
	if i < 0 {
		return Segment{Name: s}, true
	}

	seg := Segment{Name: s[:i]}

	for rest := s[i:]; rest != ""; {
		if rest[0] != '[' {
			return seg, false
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return seg, false
		}

		n, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil || n < 0 {
			return seg, false
		}

		seg.Indices = append(seg.Indices, n)
		rest = rest[end+1:]
	}

	return seg, true
}

// String returns the path as written in the template.
func (p Path) String() string { return p.raw }

// Segments returns the parsed segments of p.
func (p Path) Segments() []Segment { return p.segments }

// Valid reports whether every segment of p is well formed.
func (p Path) Valid() bool { return !p.invalid }

// Root returns the name of the first segment, which is looked up among the
// iterator bindings before the document.
func (p Path) Root() string {
	if len(p.segments) == 0 {
		return ""
	}

	return p.segments[0].Name
}

// Lookup resolves p against doc alone, without iterator bindings.
func (p Path) Lookup(doc *json.Value) (*json.Value, bool) {
	if !p.Valid() {
		return nil, false
	}

	v, ok := doc, true

	for i, seg := range p.segments {
		if i > 0 || seg.Name != "" {
			if v, ok = v.Field(seg.Name); !ok {
				return nil, false
			}
		}

		if v, ok = index(v, seg.Indices); !ok {
			return nil, false
		}
	}

	return v, true
}
