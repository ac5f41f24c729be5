package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

const baseHistory = "history.utf8"

// inputMode distinguishes template lines from control commands.
type inputMode int

const (
	modeTemplate inputMode = iota
	modeCommand
)

// historyPrefix tags each line of the history file with its mode.
var historyPrefix = map[inputMode]string{
	modeTemplate: "T:",
	modeCommand:  "C:",
}

// HistoryEntry is a line entered in the REPL.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is the list of entered lines, persisted to a file.
// Re-entering a line moves it to the end.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns a History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those of the history file. A missing file
// is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry := HistoryEntry{Line: line, Mode: modeTemplate}

		for mode, prefix := range historyPrefix {
			if s, ok := strings.CutPrefix(line, prefix); ok {
				entry = HistoryEntry{Line: s, Mode: mode}

				break
			}
		}

		h.entries = append(h.entries, entry)
	}

	return scanner.Err()
}

// Add appends line to the history and saves it. An earlier identical entry
// is removed.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	h.entries = slices.DeleteFunc(h.entries, func(e HistoryEntry) bool {
		return e == entry
	})
	h.entries = append(h.entries, entry)

	return h.save()
}

// Entry returns the i'th entry, oldest first.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// save rewrites the history file. Must be called with h.mu held.
func (h *History) save() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder

	for _, e := range h.entries {
		sb.WriteString(historyPrefix[e.Mode])
		sb.WriteString(e.Line)
		sb.WriteByte('\n')
	}

	return atomic.WriteFile(h.path, strings.NewReader(sb.String()))
}
