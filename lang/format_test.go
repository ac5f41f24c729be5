package lang

import (
	"strings"
	"testing"
)

func TestTemplate_Format(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		source string
		want   string
	}{
		{
			name:   "keyword",
			syntax: KeywordSyntax(),
			source: `a{% x %}{%  for r in roles   join ", " %}{% r.name %}{% end %}{% include p %}{%exec  q %}`,
			want:   `a{%x%}{%for r in roles join ", "%}{%r.name%}{%end%}{%include p%}{%exec q%}`,
		},
		{
			name:   "delimiter",
			syntax: DelimiterSyntax(),
			source: "{{ x }}{{r#roles#; #}}{{r}}{{/roles}}{{> p}}{{! q }}",
			want:   "{{x}}{{r#roles#; #}}{{r}}{{/roles}}{{>p}}{{!q}}",
		},
		{
			name:   "trailing backslash in code",
			syntax: KeywordSyntax(),
			source: `{%exec a\ %}`,
			want:   `{%exec a\ %}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(t.Context(), tt.source, tt.syntax)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			var sb strings.Builder
			if err := tmpl.Format(&sb); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			if sb.String() != tt.want {
				t.Errorf("Format() = %q, want %q", sb.String(), tt.want)
			}

			again, err := Parse(t.Context(), sb.String(), tt.syntax)
			if err != nil {
				t.Fatalf("Parse(Format()) error = %v", err)
			}

			if describe(t, again) != describe(t, tmpl) {
				t.Errorf("Format() changed the tree:\n%s\nvs\n%s", describe(t, again), describe(t, tmpl))
			}
		})
	}
}

func TestTemplate_FormatJSON(t *testing.T) {
	tmpl, err := Parse(t.Context(), `a{%for x in xs join "-"%}{%x%}{%end%}`, KeywordSyntax())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var sb strings.Builder
	if err := tmpl.FormatJSON(&sb, ""); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	want := `[{"kind":"text","offset":0,"content":"a"},` +
		`{"kind":"section","offset":1,"iterator":"x","path":"xs","join":"-","body":[` +
		`{"kind":"interpolate","offset":25,"path":"x"}]}]` + "\n"

	if sb.String() != want {
		t.Errorf("FormatJSON() =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestTemplate_FormatYAML(t *testing.T) {
	tmpl, err := Parse(t.Context(), "{%x%}", KeywordSyntax())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var sb strings.Builder
	if err := tmpl.FormatYAML(t.Context(), &sb, 2); err != nil {
		t.Fatalf("FormatYAML() error = %v", err)
	}

	for _, want := range []string{"kind: interpolate", "offset: 0", "path: x"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("FormatYAML() = %q, missing %q", sb.String(), want)
		}
	}
}

func TestTemplate_ToMap(t *testing.T) {
	tmpl, err := Parse(t.Context(), "t{%x%}", KeywordSyntax())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	nodes, ok := tmpl.ToMap()["nodes"].([]any)
	if !ok || len(nodes) != 2 {
		t.Fatalf("ToMap() nodes = %#v", tmpl.ToMap()["nodes"])
	}

	first, _ := nodes[0].(map[string]any)
	if first["kind"] != "text" || first["content"] != "t" {
		t.Errorf("first node = %v", first)
	}
}

func TestTemplate_Walk(t *testing.T) {
	tmpl, err := Parse(t.Context(), "{%for a in x%}{%for b in a%}{%b%}{%end%}{%end%}z", KeywordSyntax())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var depths []int

	tmpl.Walk(func(_ *Node, depth int) bool {
		depths = append(depths, depth)

		return true
	})

	if want := []int{0, 1, 2, 0}; !equalInts(depths, want) {
		t.Errorf("Walk() depths = %v, want %v", depths, want)
	}

	count := 0

	tmpl.Walk(func(*Node, int) bool {
		count++

		return count < 2
	})

	if count != 2 {
		t.Errorf("Walk() visited %d nodes after stop, want 2", count)
	}
}
