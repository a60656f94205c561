package dispatch

import (
	"path/filepath"
	"testing"
)

func TestPrintLogRoundTrip(t *testing.T) {
	pl := NewPrintLog(filepath.Join(t.TempDir(), "history", "print_log"))

	pl.Append("benchy.gcode", StatusCompleted, 5400, 3500)
	pl.Append("vase.gcode", StatusCancelled, 300, 120)

	entries, err := pl.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Filename != "benchy.gcode" || first.Status != StatusCompleted {
		t.Errorf("entry 0 = %+v", first)
	}
	if first.Duration != "1h 30m" {
		t.Errorf("duration = %q, want 1h 30m", first.Duration)
	}
	if first.Filament != "8.4g" {
		t.Errorf("filament = %q, want 8.4g", first.Filament)
	}

	if entries[1].Filename != "vase.gcode" || entries[1].Status != StatusCancelled {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestPrintLogTailLimit(t *testing.T) {
	pl := NewPrintLog(filepath.Join(t.TempDir(), "print_log"))

	for i := 0; i < 25; i++ {
		pl.Append("part.gcode", StatusCompleted, 60, 100)
	}

	entries, err := pl.Tail(20)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("got %d entries, want 20", len(entries))
	}
}

func TestPrintLogMissingFile(t *testing.T) {
	pl := NewPrintLog(filepath.Join(t.TempDir(), "does_not_exist"))

	entries, err := pl.Tail(20)
	if err != nil {
		t.Fatalf("Tail on missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
