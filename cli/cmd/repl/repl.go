// Package repl implements an interactive terminal for rendering templates
// against a document line by line.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	templatePrompt = "➜ "
	commandPrefix  = ":"
	defaultWidth   = 80
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	session    *Session
	history    *History
	input      textinput.Model
	completion completion
	historyIdx int
	suggIdx    int  // selected candidate, -1 if none
	tabActive  bool // whether the user is cycling candidates
	width      int
	quitting   bool
}

// Run starts the REPL on the terminal. History is kept in cacheDir.
func Run(ctx context.Context, session *Session, cacheDir string) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		session.Logger.WarnContext(ctx, "could not load history",
			slog.Any("error", err))
	}

	session.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()))

	_, err = tea.NewProgram(newModel(ctx, session, history), tea.WithContext(ctx)).Run()

	return err
}

func newModel(ctx context.Context, session *Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(templatePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    session,
		history:    history,
		input:      ti,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(templatePrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch input := m.input.Value(); {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a template, or :help for commands"))

	case len(m.completion.matches) > 0 && !strings.HasPrefix(input, commandPrefix):
		b.WriteString(m.candidateBar())
	}

	b.WriteString("\n")

	return b.String()
}

// candidateBar renders the matching member names on one line, truncated
// to the terminal width.
func (m model) candidateBar() string {
	var (
		b    strings.Builder
		used int
	)

	for i, match := range m.completion.matches {
		if used+len(match.Str)+1 > m.width {
			b.WriteString(hintStyle.Render("…"))

			break
		}

		style := suggestionStyle
		if i == m.suggIdx {
			style = selectedStyle
		}

		b.WriteString(style.Render(match.Str))
		b.WriteByte(' ')

		used += len(match.Str) + 1
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.historyIdx = m.history.Len()
		m.refresh()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive {
			m.tabActive = false
			m.refresh()

			return m, nil
		}

		return m.execute()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1), nil

	case tea.KeyDown:
		return m.recall(1), nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// refresh recomputes the completions at the cursor.
func (m *model) refresh() {
	m.completion = m.session.complete(m.input.Value(), m.input.Position())
	m.suggIdx = -1
}

// cycle replaces the word at the cursor with the next (dir > 0) or previous
// candidate.
func (m model) cycle(dir int) model {
	n := len(m.completion.matches)
	if n == 0 {
		return m
	}

	switch {
	case !m.tabActive && dir > 0:
		m.suggIdx = 0
	case !m.tabActive:
		m.suggIdx = n - 1
	default:
		m.suggIdx = (m.suggIdx + dir + n) % n
	}

	m.tabActive = n > 1

	input := m.input.Value()
	word := m.completion.matches[m.suggIdx].Str

	m.input.SetValue(input[:m.completion.start] + word + input[m.completion.end:])
	m.input.SetCursor(m.completion.start + len(word))
	m.completion.end = m.completion.start + len(word)

	if !m.tabActive {
		m.completion.matches = nil
		m.suggIdx = -1
	}

	return m
}

// recall moves through history by dir entries.
func (m model) recall(dir int) model {
	idx := m.historyIdx + dir
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.historyIdx = idx

	if entry, err := m.history.Entry(idx); err == nil {
		line := entry.Line
		if entry.Mode == modeCommand {
			line = commandPrefix + line
		}

		m.input.SetValue(line)
	} else {
		m.input.SetValue("")
	}

	m.input.CursorEnd()
	m.tabActive = false
	m.completion = completion{}

	return m
}

func (m model) execute() (model, tea.Cmd) {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.completion = completion{}

	ctx := m.ctxFunc()

	if cmdline, ok := strings.CutPrefix(strings.TrimSpace(line), commandPrefix); ok {
		if err := m.history.Add(cmdline, modeCommand); err != nil {
			m.session.Logger.DebugContext(ctx, "history write failed", slog.Any("error", err))
		}

		m.historyIdx = m.history.Len()

		return m.command(ctx, cmdline)
	}

	if err := m.history.Add(line, modeTemplate); err != nil {
		m.session.Logger.DebugContext(ctx, "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(templatePrompt) + inputStyle.Render(line))

	out, err := m.session.Render(ctx, line)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

func (m model) command(ctx context.Context, cmdline string) (model, tea.Cmd) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return m, nil
	}

	echo := tea.Println(promptStyle.Render(commandPrefix) + inputStyle.Render(cmdline))

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "c", "clear":
		return m, tea.ClearScreen
	}

	out, err := m.session.Command(ctx, fields[0], fields[1:])
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}
