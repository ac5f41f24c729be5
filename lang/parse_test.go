package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/pkg"
)

func describe(t *testing.T, tmpl *Template) string {
	t.Helper()

	var sb strings.Builder
	if err := tmpl.Print(&sb); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	return sb.String()
}

func TestParse_Nodes(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		source string
		want   string
	}{
		{
			name:   "empty",
			syntax: KeywordSyntax(),
			source: "",
			want:   "text \"\"\n",
		},
		{
			name:   "text only",
			syntax: KeywordSyntax(),
			source: "no tags here } %",
			want:   "text \"no tags here } %\"\n",
		},
		{
			name:   "interpolation",
			syntax: KeywordSyntax(),
			source: "Hello {% name %}!",
			want:   "text \"Hello \"\ninterpolate name\ntext \"!\"\n",
		},
		{
			name:   "keyword lookalike",
			syntax: KeywordSyntax(),
			source: "{%format%}{%endpoint%}{%exec_time%}",
			want:   "interpolate format\ninterpolate endpoint\ninterpolate exec_time\n",
		},
		{
			name:   "section with join",
			syntax: KeywordSyntax(),
			source: `{%for r in roles join ", "%}{%r%}{%end%}`,
			want:   "section r in roles join \", \"\n  interpolate r\n",
		},
		{
			name:   "nested sections",
			syntax: KeywordSyntax(),
			source: "{%for u in users%}{%u.name%}: {%for r in u.roles%}{%r%}{%end%}\n{%end%}",
			want: "section u in users\n" +
				"  interpolate u.name\n" +
				"  text \": \"\n" +
				"  section r in u.roles\n" +
				"    interpolate r\n" +
				"  text \"\\n\"\n",
		},
		{
			name:   "include and execute",
			syntax: KeywordSyntax(),
			source: "{% include parts %}{% exec SELECT 1 %}",
			want:   "include parts\nexecute \"SELECT 1\"\n",
		},
		{
			name:   "execute with quoted braces",
			syntax: KeywordSyntax(),
			source: `{%exec SELECT '%}' || "{%" %}tail`,
			want:   "execute \"SELECT '%}' || \\\"{%\\\"\"\ntext \"tail\"\n",
		},
		{
			name:   "execute with balanced braces",
			syntax: KeywordSyntax(),
			source: "{%exec f({% x %})%}",
			want:   "execute \"f({% x %})\"\n",
		},
		{
			name:   "execute in section body",
			syntax: KeywordSyntax(),
			source: "{%for x in xs%}{%exec '{%end%}'%}{%end%}",
			want:   "section x in xs\n  execute \"'{%end%}'\"\n",
		},
		{
			name:   "delimiter section",
			syntax: DelimiterSyntax(),
			source: "{{r#roles#, #}}{{r}}{{/roles}}",
			want:   "section r in roles join \", \"\n  interpolate r\n",
		},
		{
			name:   "delimiter nesting by source",
			syntax: DelimiterSyntax(),
			source: "{{u#users}}{{r#u.roles}}{{r}}{{/u.roles}}{{/users}}",
			want: "section u in users\n" +
				"  section r in u.roles\n" +
				"    interpolate r\n",
		},
		{
			name:   "delimiter same source nested",
			syntax: DelimiterSyntax(),
			source: "{{a#xs}}{{b#xs}}{{b}}{{/xs}}{{/xs}}",
			want: "section a in xs\n" +
				"  section b in xs\n" +
				"    interpolate b\n",
		},
		{
			name:   "delimiter include and execute",
			syntax: DelimiterSyntax(),
			source: "{{>parts}}{{!SELECT '}}'}}",
			want:   "include parts\nexecute \"SELECT '}}'\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(t.Context(), tt.source, tt.syntax)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if got := describe(t, tmpl); got != tt.want {
				t.Errorf("Parse() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		source string
		want   error
		offset int
	}{
		{"missing section end", KeywordSyntax(), "{%for x in items%}", ErrUnexpectedSectionEnd, 0},
		{"end without start", KeywordSyntax(), "a{%end%}", ErrUnexpectedSectionEnd, 1},
		{"unterminated section tag", KeywordSyntax(), "{%for x in items", ErrUnexpectedSectionEnd, 0},
		{"trailing garbage", KeywordSyntax(), "{%for x in items extra%}{%end%}", ErrUnexpectedSectionEnd, 0},
		{"unterminated join", KeywordSyntax(), `{%for x in items join ", %}{%end%}`, ErrUnexpectedSectionEnd, 0},
		{"no source keyword", KeywordSyntax(), "{%for x items%}{%end%}", ErrNoSourceInSection, 0},
		{"no source path", KeywordSyntax(), "{%for x in%}{%end%}", ErrNoSourceInSection, 0},
		{"unterminated interpolation", KeywordSyntax(), "ab{%name", ErrUnexpectedInterpolationEnd, 2},
		{"nested interpolation", KeywordSyntax(), "{%a {%b%}%}", ErrNestedInterpolation, 4},
		{"nested include", KeywordSyntax(), "{%include a{%b%}%}", ErrNestedInclude, 11},
		{"unterminated include", KeywordSyntax(), "{%include a", ErrUnexpectedIncludeEnd, 0},
		{"unterminated execute", KeywordSyntax(), "{%exec SELECT '%}", ErrUnexpectedExecuteEnd, 0},
		{"nested execute", KeywordSyntax(), "{%exec a {%exec b%}%}", ErrNestedExecute, 9},
		{"unknown tag", KeywordSyntax(), "{%fr x in items%}", ErrUnknownTag, 0},
		{"error in section body", KeywordSyntax(), "{%for x in xs%}{%x{%end%}", ErrUnexpectedSectionEnd, 0},
		{"delimiter missing end", DelimiterSyntax(), "{{x#items}}{{/other}}", ErrUnexpectedSectionEnd, 0},
		{"delimiter stray end", DelimiterSyntax(), "{{/items}}", ErrUnexpectedSectionEnd, 0},
		{"invalid syntax", Syntax{}, "text", ErrInvalidConfig, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(t.Context(), tt.source, tt.syntax)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}

			if tt.offset < 0 {
				return
			}

			pos, ok := pkg.WrapError(err).Position()
			if !ok {
				t.Fatalf("error %v has no position", err)
			}

			if pos.Offset != tt.offset {
				t.Errorf("error offset = %d, want %d", pos.Offset, tt.offset)
			}
		})
	}
}

func TestParse_UnknownTagSuggestion(t *testing.T) {
	_, err := Parse(t.Context(), "{%fr x in items%}", KeywordSyntax())

	e := pkg.WrapError(err)
	if e == nil {
		t.Fatal("Parse() succeeded, want error")
	}

	v, ok := e.Attr("suggestion")
	if !ok || v.String() != "for" {
		t.Errorf("suggestion = %v, %v; want for", v, ok)
	}

	if !strings.Contains(err.Error(), `did you mean "for"`) {
		t.Errorf("Error() = %q, want suggestion", err.Error())
	}
}

func TestParse_ErrorSnippet(t *testing.T) {
	_, err := Parse(t.Context(), "line one\n  {%name", KeywordSyntax())

	e := pkg.WrapError(err)

	pos, _ := e.Position()
	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("position = %v, want line 2, column 3", pos)
	}

	want := "  2 |   {%name\n" +
		"        ^\n"
	if got := e.Snippet(); got != want {
		t.Errorf("Snippet() =\n%q\nwant\n%q", got, want)
	}
}

func TestParse_MaxDepth(t *testing.T) {
	src := "{%for a in x%}{%for b in x%}{%for c in x%}{%end%}{%end%}{%end%}"

	if _, err := Parse(t.Context(), src, KeywordSyntax(), WithMaxDepth(3)); err != nil {
		t.Fatalf("Parse() at depth limit error = %v", err)
	}

	_, err := Parse(t.Context(), src, KeywordSyntax(), WithMaxDepth(2))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Parse() error = %v, want %v", err, ErrMaxDepthExceeded)
	}
}

func TestParse_ArenaBudget(t *testing.T) {
	src := strings.Repeat("{%x%}", 100)

	a := arena.New(nodeSize * 10)

	_, err := Parse(t.Context(), src, KeywordSyntax(), WithArena(a))
	if !errors.Is(err, arena.ErrOutOfMemory) {
		t.Fatalf("Parse() error = %v, want %v", err, arena.ErrOutOfMemory)
	}

	a = arena.New(nodeSize * 200)

	if _, err := Parse(t.Context(), src, KeywordSyntax(), WithArena(a)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if a.SizeInUse() < nodeSize*100 {
		t.Errorf("SizeInUse() = %d, want at least %d", a.SizeInUse(), nodeSize*100)
	}
}

func TestParseReader(t *testing.T) {
	tmpl, err := ParseReader(t.Context(), strings.NewReader("a{%b%}c"), KeywordSyntax())
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	if len(tmpl.Nodes) != 3 || tmpl.Source() != "a{%b%}c" {
		t.Errorf("ParseReader() = %d nodes, source %q", len(tmpl.Nodes), tmpl.Source())
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		raw   string
		sep   string
		want  []Segment
		valid bool
	}{
		{"name", ".", []Segment{{Name: "name"}}, true},
		{"a.b.c", ".", []Segment{{Name: "a"}, {Name: "b"}, {Name: "c"}}, true},
		{"users[0].roles[1]", ".", []Segment{
			{Name: "users", Indices: []int{0}},
			{Name: "roles", Indices: []int{1}},
		}, true},
		{"m[1][2]", ".", []Segment{{Name: "m", Indices: []int{1, 2}}}, true},
		{"[3]", ".", []Segment{{Name: "", Indices: []int{3}}}, true},
		{"a/b", "/", []Segment{{Name: "a"}, {Name: "b"}}, true},
		{"a[x]", ".", nil, false},
		{"a[1", ".", nil, false},
		{"a[-1]", ".", nil, false},
		{"a[1]b", ".", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p := ParsePath(tt.raw, tt.sep)

			if p.Valid() != tt.valid {
				t.Fatalf("Valid() = %v, want %v", p.Valid(), tt.valid)
			}

			if p.String() != tt.raw {
				t.Errorf("String() = %q, want %q", p.String(), tt.raw)
			}

			if !tt.valid {
				return
			}

			got := p.Segments()
			if len(got) != len(tt.want) {
				t.Fatalf("Segments() = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i].Name != tt.want[i].Name ||
					!equalInts(got[i].Indices, tt.want[i].Indices) {
					t.Errorf("segment %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"Hello {%name%}",
		`{%for r in roles join ", "%}{%r%}{%end%}`,
		"{%exec SELECT '{%' %}",
		"{%include parts%}",
		"{%for x in%}",
		"{%a {%b%}%}",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		tmpl, err := Parse(t.Context(), src, KeywordSyntax())
		if err != nil {
			var e *pkg.Error
			if !errors.As(err, &e) {
				t.Fatalf("Parse() returned untyped error %v", err)
			}

			return
		}

		if len(tmpl.Nodes) == 0 {
			t.Fatal("Parse() returned no nodes")
		}

		// reformatted source parses to the same tree
		var sb strings.Builder
		if err := tmpl.Format(&sb); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		again, err := Parse(t.Context(), sb.String(), KeywordSyntax())
		if err != nil {
			t.Fatalf("Parse(Format()) error = %v\nsource %q\nformatted %q", err, src, sb.String())
		}

		if describe(t, again) != describe(t, tmpl) {
			t.Fatalf("Format() changed tree\nsource %q\nformatted %q", src, sb.String())
		}
	})
}
