package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// captureStdout redirects command output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	old := stdout
	stdout = &buf

	t.Cleanup(func() { stdout = old })

	return &buf
}

// replaceStdin makes stdinSource read text for the test.
func replaceStdin(t *testing.T, text string) {
	t.Helper()

	old := stdin
	stdin = strings.NewReader(text)

	t.Cleanup(func() { stdin = old })
}

// writeFile creates a file in a temporary directory and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestUniquePaths(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.tmpl")
	b := filepath.Join(dir, "b.tmpl")
	link := filepath.Join(dir, "link.tmpl")
	missing := filepath.Join(dir, "missing.tmpl")

	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte(p), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := uniquePaths([]string{a, "-", b, link, a, "-", missing, missing})
	want := []string{a, "-", b, missing, missing}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("uniquePaths() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadInput(t *testing.T) {
	replaceStdin(t, "from stdin")

	path := writeFile(t, "in.txt", "from file")

	tests := []struct {
		path string
		want string
	}{
		{path: "-", want: "from stdin"},
		{path: path, want: "from file"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := readInput(tt.path)
			if err != nil {
				t.Fatalf("readInput(%q) error = %v", tt.path, err)
			}

			if string(got) != tt.want {
				t.Errorf("readInput(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if _, err := readInput(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("readInput(missing) error = nil, want error")
	}
}

func TestWriteOutput(t *testing.T) {
	out := captureStdout(t)

	if err := writeOutput("", strings.NewReader("to stdout")); err != nil {
		t.Fatalf("writeOutput() error = %v", err)
	}

	if got := out.String(); got != "to stdout" {
		t.Errorf("stdout = %q, want %q", got, "to stdout")
	}

	path := filepath.Join(t.TempDir(), "out.txt")

	for _, text := range []string{"first", "second"} {
		if err := writeOutput(path, strings.NewReader(text)); err != nil {
			t.Fatalf("writeOutput(%q) error = %v", path, err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}

		got, _ := io.ReadAll(f)
		f.Close()

		if string(got) != text {
			t.Errorf("file = %q, want %q", got, text)
		}
	}
}
