package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/stencil/json"
	"github.com/ardnew/stencil/lang"
)

const testDoc = `{"name":"John","user":{"city":"Oslo","country":"NO"},"tags":["a","b"]}`

func newTestSession(t *testing.T) *Session {
	t.Helper()

	data, err := json.Parse(testDoc)
	if err != nil {
		t.Fatal(err)
	}

	return &Session{Syntax: lang.KeywordSyntax(), Data: data}
}

func TestSession_Render(t *testing.T) {
	s := newTestSession(t)

	tests := []struct {
		name string
		line string
		want string
	}{
		{"text", "plain", "plain"},
		{"interpolate", "Hi {%name%}", "Hi John"},
		{"nested", "{%user.city%}", "Oslo"},
		{"section", "{%for t in tags join \",\"%}{%t%}{%end%}", "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Render(t.Context(), tt.line)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := s.Render(t.Context(), "ab{%name"); !errors.Is(err, lang.ErrUnexpectedInterpolationEnd) {
		t.Errorf("Render() error = %v, want %v", err, lang.ErrUnexpectedInterpolationEnd)
	}
}

func TestSession_Command(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		want    string
		wantErr error
	}{
		{name: "keys root", command: "keys", want: "name\nuser\ntags"},
		{name: "keys nested", command: "k", args: []string{"user"}, want: "city\ncountry"},
		{name: "keys array", command: "keys", args: []string{"tags"}, want: "[0]\n[1]"},
		{name: "keys scalar", command: "keys", args: []string{"name"}, want: ""},
		{name: "keys missing", command: "keys", args: []string{"nope"}, wantErr: ErrUnresolvedPath},
		{name: "ast before render", command: "ast", wantErr: ErrNoTemplate},
		{name: "syntax show", command: "syntax", want: "syntax: keyword"},
		{name: "syntax set", command: "s", args: []string{"delimiter"}, want: "syntax: delimiter"},
		{name: "syntax unknown", command: "syntax", args: []string{"nope"}, wantErr: ErrUnknownSyntax},
		{name: "unknown", command: "frob", wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)

			got, err := s.Command(t.Context(), tt.command, tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Command() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Command() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSession_CommandAST(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Render(t.Context(), "a{%name%}"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Command(t.Context(), "ast", nil)
	if err != nil {
		t.Fatal(err)
	}

	if want := "text \"a\"\ninterpolate name"; got != want {
		t.Errorf("ast = %q, want %q", got, want)
	}
}

func TestSession_SyntaxSwitch(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Command(t.Context(), "syntax", []string{"delimiter"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Render(t.Context(), "{{name}}")
	if err != nil {
		t.Fatal(err)
	}

	if got != "John" {
		t.Errorf("Render() = %q, want %q", got, "John")
	}

	if help := helpMessage(); !strings.Contains(help, "syntax [NAME]") {
		t.Errorf("help message missing syntax command")
	}
}
