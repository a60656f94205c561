package editor

import (
	"os"
	"path/filepath"
	"strings"
)

// MaxSavedEntries caps how many commands are retained when history is
// flushed to disk. The in-memory history is unbounded for the session.
const MaxSavedEntries = 1000

// History is an ordered sequence of previously submitted command
// strings, oldest first.
type History struct {
	entries []string
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a command unless it equals the immediately preceding
// entry. Earlier duplicates are allowed.
func (h *History) Append(command string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == command {
		return
	}
	h.entries = append(h.entries, command)
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// At returns the entry at index i, oldest first.
func (h *History) At(i int) string { return h.entries[i] }

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Load reads newline-delimited history from path, most recent at end.
// A missing or unreadable file degrades to empty history, never an error.
func (h *History) Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	h.entries = h.entries[:0]
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
}

// Save writes history to path as newline-delimited text, trimmed to the
// most recent MaxSavedEntries. Failures degrade silently: history
// persistence is never allowed to surface as a user-facing error.
func (h *History) Save(path string) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return
		}
	}

	entries := h.entries
	if len(entries) > MaxSavedEntries {
		entries = entries[len(entries)-MaxSavedEntries:]
	}

	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}

	_ = os.WriteFile(path, []byte(b.String()), 0600)
}
