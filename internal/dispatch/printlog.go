package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Print completion statuses recorded in the log.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// LogEntry is one parsed line of the print-completion log.
type LogEntry struct {
	Timestamp string
	Filename  string
	Status    string
	Duration  string
	Filament  string
}

// PrintLog persists completed and cancelled prints as pipe-delimited
// lines: timestamp|filename|status|duration|filament_grams. Appends
// happen on each completed/cancelled transition; reads serve the
// `history` command. All failures degrade silently.
type PrintLog struct {
	path string
}

// NewPrintLog creates a log backed by the file at path.
func NewPrintLog(path string) *PrintLog {
	return &PrintLog{path: path}
}

// Append records one finished print. durationSec and filamentMM come
// from print_stats at the moment of the state transition.
func (pl *PrintLog) Append(filename, status string, durationSec, filamentMM float64) {
	if dir := filepath.Dir(pl.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return
		}
	}

	f, err := os.OpenFile(pl.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	hours := int(durationSec) / 3600
	minutes := (int(durationSec) % 3600) / 60
	grams := filamentMM / 1000 * gramsPerMeter

	line := fmt.Sprintf("%s|%s|%s|%dh %dm|%.1fg\n",
		time.Now().Format("2006-01-02 15:04"), filename, status, hours, minutes, grams)
	_, _ = f.WriteString(line)
}

// Tail returns up to n most recent entries, oldest first. A missing
// file yields an empty slice.
func (pl *PrintLog) Tail(n int) ([]LogEntry, error) {
	data, err := os.ReadFile(pl.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Split(strings.TrimSpace(line), "|")
		if len(parts) < 5 {
			continue
		}
		entries = append(entries, LogEntry{
			Timestamp: parts[0],
			Filename:  parts[1],
			Status:    parts[2],
			Duration:  parts[3],
			Filament:  parts[4],
		})
	}

	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
