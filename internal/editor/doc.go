// Package editor implements the command-line editor: a single-line text
// buffer with cursor movement, and a command history with up/down
// navigation and newline-delimited persistence.
//
// The editor is a pure in-memory state machine; it performs no I/O apart
// from History.Load and History.Save, both of which degrade silently on
// filesystem errors.
package editor
