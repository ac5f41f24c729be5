package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeKeys(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func TestModel_CompleteAndExecute(t *testing.T) {
	m := newModel(t.Context(), newTestSession(t), NewHistory(""))

	m = typeKeys(m, "Hi {%na")
	if n := len(m.completion.matches); n != 1 {
		t.Fatalf("matches = %d, want 1", n)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got, want := m.input.Value(), "Hi {%name"; got != want {
		t.Fatalf("after tab = %q, want %q", got, want)
	}

	m = typeKeys(m, "%}")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter returned no command")
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	entry, err := m.history.Entry(0)
	if err != nil {
		t.Fatal(err)
	}

	if want := (HistoryEntry{Line: "Hi {%name%}", Mode: modeTemplate}); entry != want {
		t.Errorf("history = %+v, want %+v", entry, want)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.input.Value(); got != "Hi {%name%}" {
		t.Errorf("recall = %q", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.input.Value(); got != "" {
		t.Errorf("recall past end = %q", got)
	}
}

func TestModel_CycleCandidates(t *testing.T) {
	m := newModel(t.Context(), newTestSession(t), NewHistory(""))

	m = typeKeys(m, "{%user.c")
	if n := len(m.completion.matches); n != 2 {
		t.Fatalf("matches = %d, want 2", n)
	}

	first := m.completion.matches[0].Str
	second := m.completion.matches[1].Str

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "{%user."+first {
		t.Errorf("first tab = %q", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != "{%user."+second {
		t.Errorf("second tab = %q", got)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.input.Value(); got != "{%user."+first {
		t.Errorf("shift-tab = %q", got)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD} {
		m := newModel(t.Context(), newTestSession(t), NewHistory(""))

		m, cmd := m.handleKey(tea.KeyMsg{Type: key})
		if !m.quitting || cmd == nil {
			t.Errorf("%v on empty line did not quit", key)
		}
	}

	m := newModel(t.Context(), newTestSession(t), NewHistory(""))
	m = typeKeys(m, "abc")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting || m.input.Value() != "" {
		t.Errorf("ctrl+c on text: quitting=%v input=%q", m.quitting, m.input.Value())
	}
}
