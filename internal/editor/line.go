package editor

import (
	"strings"
	"unicode/utf8"
)

// notBrowsing is the history index sentinel for "editing a fresh line".
const notBrowsing = -1

// Line is a single-line text editor with cursor movement and history
// navigation. The cursor is a byte offset clamped to [0, len(text)],
// always on a rune boundary; the history index is notBrowsing, or a
// position in [0, len(history)]
// where len(history) is the transient "back at the draft" slot.
type Line struct {
	text      string
	cursor    int
	history   *History
	histIndex int
	draft     string
}

// NewLine creates an empty editor backed by the given history.
func NewLine(history *History) *Line {
	if history == nil {
		history = NewHistory()
	}
	return &Line{history: history, histIndex: notBrowsing}
}

// Text returns the current buffer contents.
func (l *Line) Text() string { return l.text }

// Cursor returns the cursor offset within the buffer.
func (l *Line) Cursor() int { return l.cursor }

// History returns the backing command history.
func (l *Line) History() *History { return l.history }

// Insert inserts a single printable rune at the cursor.
func (l *Line) Insert(r rune) {
	l.text = l.text[:l.cursor] + string(r) + l.text[l.cursor:]
	l.cursor += len(string(r))
}

// Backspace deletes the rune before the cursor, if any.
func (l *Line) Backspace() {
	if l.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(l.text[:l.cursor])
	l.text = l.text[:l.cursor-size] + l.text[l.cursor:]
	l.cursor -= size
}

// Delete deletes the rune at the cursor, if any.
func (l *Line) Delete() {
	if l.cursor >= len(l.text) {
		return
	}
	_, size := utf8.DecodeRuneInString(l.text[l.cursor:])
	l.text = l.text[:l.cursor] + l.text[l.cursor+size:]
}

// Move moves the cursor by delta runes, clamped to the buffer bounds.
// Stepping by rune keeps the byte offset on a character boundary for
// multi-byte input.
func (l *Line) Move(delta int) {
	for delta > 0 && l.cursor < len(l.text) {
		_, size := utf8.DecodeRuneInString(l.text[l.cursor:])
		l.cursor += size
		delta--
	}
	for delta < 0 && l.cursor > 0 {
		_, size := utf8.DecodeLastRuneInString(l.text[:l.cursor])
		l.cursor -= size
		delta++
	}
}

// Home moves the cursor to the start of the buffer.
func (l *Line) Home() { l.cursor = 0 }

// End moves the cursor to the end of the buffer.
func (l *Line) End() { l.cursor = len(l.text) }

// SetText replaces the buffer contents and puts the cursor at the end.
// Used by tab completion.
func (l *Line) SetText(text string) {
	l.text = text
	l.cursor = len(text)
}

// Submit trims the buffer, appends it to history when non-empty (the
// history itself dedups against its most recent entry), clears the
// buffer, and exits history browsing. Returns the trimmed command,
// which is "" for a whitespace-only buffer.
func (l *Line) Submit() string {
	command := strings.TrimSpace(l.text)
	if command != "" {
		l.history.Append(command)
	}

	l.text = ""
	l.cursor = 0
	l.histIndex = notBrowsing
	l.draft = ""

	return command
}

// HistoryUp steps backward through history. The first invocation saves
// the current buffer as a draft; stepping stops at the oldest entry.
func (l *Line) HistoryUp() {
	if l.history.Len() == 0 {
		return
	}

	if l.histIndex == notBrowsing {
		l.draft = l.text
		l.histIndex = l.history.Len()
	}

	if l.histIndex > 0 {
		l.histIndex--
		l.SetText(l.history.At(l.histIndex))
	}
}

// HistoryDown steps forward through history. Stepping past the newest
// entry restores the saved draft and exits history browsing.
func (l *Line) HistoryDown() {
	if l.histIndex == notBrowsing {
		return
	}

	l.histIndex++
	if l.histIndex >= l.history.Len() {
		l.SetText(l.draft)
		l.histIndex = notBrowsing
		l.draft = ""
		return
	}
	l.SetText(l.history.At(l.histIndex))
}

// Browsing reports whether the editor is navigating history.
func (l *Line) Browsing() bool { return l.histIndex != notBrowsing }
