package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistorySaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	h := NewHistory()
	saved := []string{"G28", "M104 S200", "print benchy.gcode"}
	for _, cmd := range saved {
		h.Append(cmd)
	}
	h.Save(path)

	loaded := NewHistory()
	loaded.Load(path)

	if !reflect.DeepEqual(loaded.Entries(), saved) {
		t.Errorf("loaded = %v, want %v", loaded.Entries(), saved)
	}
}

func TestHistoryLoadMissingFile(t *testing.T) {
	h := NewHistory()
	h.Load(filepath.Join(t.TempDir(), "does-not-exist"))

	if h.Len() != 0 {
		t.Errorf("len = %d, want 0", h.Len())
	}
}

func TestHistoryLoadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")
	if err := os.WriteFile(path, []byte("G28\n\n  \nM114\n"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	h := NewHistory()
	h.Load(path)

	want := []string{"G28", "M114"}
	if !reflect.DeepEqual(h.Entries(), want) {
		t.Errorf("entries = %v, want %v", h.Entries(), want)
	}
}

func TestHistorySaveTrimsToCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	h := NewHistory()
	for i := 0; i < MaxSavedEntries+50; i++ {
		h.Append(fmt.Sprintf("M117 line %d", i))
	}
	h.Save(path)

	loaded := NewHistory()
	loaded.Load(path)

	if loaded.Len() != MaxSavedEntries {
		t.Fatalf("loaded len = %d, want %d", loaded.Len(), MaxSavedEntries)
	}
	// The most recent entries are the ones retained
	if got := loaded.At(loaded.Len() - 1); got != fmt.Sprintf("M117 line %d", MaxSavedEntries+49) {
		t.Errorf("last entry = %q", got)
	}
	if got := loaded.At(0); got != "M117 line 50" {
		t.Errorf("first entry = %q, want M117 line 50", got)
	}
}

func TestHistorySaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "history")

	h := NewHistory()
	h.Append("G28")
	h.Save(path)

	loaded := NewHistory()
	loaded.Load(path)
	if loaded.Len() != 1 {
		t.Errorf("loaded len = %d, want 1", loaded.Len())
	}
}

func TestHistorySaveUnwritablePathDegradesSilently(t *testing.T) {
	h := NewHistory()
	h.Append("G28")
	// Saving under a path whose parent is a regular file cannot succeed;
	// it must not panic or error out.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	h.Save(filepath.Join(blocker, "history"))
}
