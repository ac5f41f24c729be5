package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

type initTestCLI struct {
	Level   string   `default:"info"`
	Quiet   bool     `negatable:""`
	Include []string `name:"include"`
	Secret  string   `hidden:""`

	Init   Init `cmd:""`
	Render struct {
		Eval  string `default:"none"`
		Other string
	} `cmd:""`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create new config"},
		{name: "overwrite existing with force", force: true, exists: true},
		{name: "fail without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath,
				"--level=debug", "--quiet", "--include=a", "--include=b", "--secret=x", "init")

			err := (&Init{Force: tt.force}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			if tt.wantErr != nil {
				if string(content) != "existing" {
					t.Errorf("config = %q, want it unchanged", content)
				}

				return
			}

			var doc map[string]map[string]any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, content)
			}

			want := map[string]any{
				"level":   "debug",
				"quiet":   true,
				"include": []any{"a", "b"},
				"eval":    "none",
			}

			if diff := cmp.Diff(want, doc[ConfigNamespace]); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigValue(t *testing.T) {
	type named string

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{name: "nil", value: nil, want: nil},
		{name: "empty string", value: "", want: nil},
		{name: "string", value: "x", want: "x"},
		{name: "named string", value: named("y"), want: "y"},
		{name: "empty list", value: []string{}, want: nil},
		{name: "list", value: []string{"a"}, want: []string{"a"}},
		{name: "bool", value: false, want: false},
		{name: "int", value: 3, want: 3},
		{name: "struct", value: struct{}{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, configValue(tt.value)); diff != "" {
				t.Errorf("configValue() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
