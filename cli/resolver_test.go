package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	const doc = `
config:
  log_level: debug
  syntax: delimiter
  arena-size: 4096
  ratio: 0.5
  quiet: true
  include: [a, 2]
other:
  syntax: keyword
`

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"syntax", "delimiter"},
		{"arena-size", "4096"},
		{"ratio", "0.5"},
		{"quiet", true},
		{"include", []any{"a", "2"}},
		{"missing", nil},
	}

	resolver, err := resolve("config")(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := resolver.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if !cmp.Equal(got, tt.want) {
				t.Errorf("Resolve() mismatch (-got +want):\n%s", cmp.Diff(got, tt.want))
			}
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no namespace", "other:\n  syntax: keyword\n"},
		{"scalar namespace", "config: 3\n"},
		{"malformed", "config: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, err := resolve("config")(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}

			flag := &kong.Flag{Value: &kong.Value{Name: "syntax"}}

			got, err := resolver.Resolve(nil, nil, flag)
			if err != nil || got != nil {
				t.Errorf("Resolve() = (%v, %v), want (nil, nil)", got, err)
			}
		})
	}
}
