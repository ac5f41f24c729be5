package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/stencil/arena"
	"github.com/ardnew/stencil/lang"
)

func TestRenderRun(t *testing.T) {
	jsonData := writeFile(t, "data.json", `{"name":"John","items":["a","b"]}`)
	yamlData := writeFile(t, "data.yaml", "name: Jane\nitems:\n  - x\n  - y\n")

	tests := []struct {
		name     string
		syntax   string
		tmpl     string
		data     string
		eval     string
		markdown bool
		want     string
	}{
		{
			name: "json data",
			tmpl: `Hi {%name%}: {%for i in items join ","%}{%i%}{%end%}`,
			data: jsonData,
			want: "Hi John: a,b",
		},
		{
			name: "yaml data",
			tmpl: `Hi {%name%}: {%for i in items join ","%}{%i%}{%end%}`,
			data: yamlData,
			want: "Hi Jane: x,y",
		},
		{
			name:   "delimiter syntax",
			syntax: "delimiter",
			tmpl:   `{{i#items}}[{{i}}]{{/items}}`,
			data:   jsonData,
			want:   "[a][b]",
		},
		{
			name: "no data",
			tmpl: `[{%name%}]`,
			want: "[]",
		},
		{
			name: "no evaluator",
			tmpl: `[{%exec upper(name)%}]`,
			data: jsonData,
			want: "[]",
		},
		{
			name: "expr evaluator",
			tmpl: `[{%exec upper(name)%}]`,
			data: jsonData,
			eval: "expr",
			want: "[JOHN]",
		},
		{
			name: "sql evaluator",
			tmpl: `[{%exec SELECT json_extract(?, '$.name') || '!'%}]`,
			data: jsonData,
			eval: "sql",
			want: "[John!]",
		},
		{
			name:     "markdown",
			tmpl:     `# Hi {%name%}`,
			data:     jsonData,
			markdown: true,
			want:     "<h1>Hi John</h1>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)

			syntax := tt.syntax
			if syntax == "" {
				syntax = "keyword"
			}

			eval := tt.eval
			if eval == "" {
				eval = "none"
			}

			r := &Render{
				SyntaxFlags: SyntaxFlags{Syntax: syntax},
				Data:        tt.data,
				Eval:        eval,
				ArenaSize:   arena.DefaultCapacity,
				Markdown:    tt.markdown,
				Template:    writeFile(t, "page.tmpl", tt.tmpl),
			}

			if err := r.Run(t.Context()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRunOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	r := &Render{
		SyntaxFlags: SyntaxFlags{Syntax: "keyword"},
		Eval:        "none",
		ArenaSize:   arena.DefaultCapacity,
		Output:      path,
		Template:    writeFile(t, "page.tmpl", "static"),
	}

	if err := r.Run(t.Context()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "static" {
		t.Errorf("output file = %q, want %q", got, "static")
	}
}

func TestRenderRunErrors(t *testing.T) {
	tests := []struct {
		name      string
		tmpl      string
		data      string
		arenaSize int
		want      error
	}{
		{name: "stdin twice", tmpl: "-", data: "-", want: ErrStdinReused},
		{name: "template error", tmpl: writeFile(t, "bad.tmpl", "{%name"), want: lang.ErrUnexpectedInterpolationEnd},
		{name: "out of memory", tmpl: writeFile(t, "big.tmpl", "{%name%}{%name%}{%name%}"), arenaSize: 64, want: arena.ErrOutOfMemory},
		{name: "missing template", tmpl: filepath.Join(t.TempDir(), "missing"), want: ErrReadInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureStdout(t)

			size := tt.arenaSize
			if size == 0 {
				size = arena.DefaultCapacity
			}

			r := &Render{
				SyntaxFlags: SyntaxFlags{Syntax: "keyword"},
				Data:        tt.data,
				Eval:        "none",
				ArenaSize:   size,
				Template:    tt.tmpl,
			}

			if err := r.Run(t.Context()); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}
