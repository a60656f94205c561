package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/j3k0/mooncrescent/internal/config"
	"github.com/j3k0/mooncrescent/internal/moonraker"
)

// Severity classifies a terminal line for styling.
type Severity int

const (
	// SeverityCommand marks the echo of a submitted command.
	SeverityCommand Severity = iota
	// SeverityInfo marks ordinary output.
	SeverityInfo
	// SeverityError marks failures.
	SeverityError
)

// Line is one line of terminal output produced by a dispatched command.
type Line struct {
	Text     string
	Severity Severity
}

func info(format string, args ...any) Line {
	return Line{Text: fmt.Sprintf(format, args...), Severity: SeverityInfo}
}

func errorf(format string, args ...any) Line {
	return Line{Text: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// PrinterAPI is the slice of the connection manager the dispatcher
// uses. Narrow on purpose so tests can stub it.
type PrinterAPI interface {
	SendGcode(script string) error
	StartPrint(filename string) error
	PausePrint() error
	ResumePrint() error
	CancelPrint() error
	ListFiles() ([]moonraker.FileInfo, error)
	GetFileMetadata(filename string) (*moonraker.FileMetadata, error)
	Macros() ([]string, error)
	GcodeHelp() (map[string]string, error)
}

// commandKind is the parsed local-command tag. Anything that does not
// match the local grammar passes through as raw gcode.
type commandKind int

const (
	cmdGcode commandKind = iota
	cmdList
	cmdPrint
	cmdInfo
	cmdReprint
	cmdHistory
	cmdZOffset
	cmdPause
	cmdResume
	cmdCancel
	cmdHelp
)

type command struct {
	kind commandKind
	arg  string
}

// parse matches submitted text against the local command grammar,
// case-insensitively on the command word only.
func parse(text string) command {
	lower := strings.ToLower(text)

	switch {
	case lower == "ls":
		return command{kind: cmdList}
	case strings.HasPrefix(lower, "ls "):
		return command{kind: cmdList, arg: strings.TrimSpace(text[3:])}
	case strings.HasPrefix(lower, "print "):
		return command{kind: cmdPrint, arg: strings.TrimSpace(text[6:])}
	case lower == "print":
		return command{kind: cmdPrint}
	case strings.HasPrefix(lower, "info "):
		return command{kind: cmdInfo, arg: strings.TrimSpace(text[5:])}
	case lower == "info":
		return command{kind: cmdInfo}
	case lower == "reprint":
		return command{kind: cmdReprint}
	case lower == "history":
		return command{kind: cmdHistory}
	case strings.HasPrefix(lower, "z "):
		return command{kind: cmdZOffset, arg: strings.TrimSpace(text[2:])}
	case lower == "pause":
		return command{kind: cmdPause}
	case lower == "resume":
		return command{kind: cmdResume}
	case lower == "cancel":
		return command{kind: cmdCancel}
	case lower == "help" || lower == "?":
		return command{kind: cmdHelp}
	default:
		return command{kind: cmdGcode}
	}
}

// Dispatcher maps submitted text to local commands or raw gcode
// passthrough and renders results as terminal lines.
type Dispatcher struct {
	api      PrinterAPI
	printLog *PrintLog

	mu    sync.Mutex
	cache fileCache

	// printerCommands caches macro and gcode-help names for completion,
	// fetched once per session.
	printerCommands        []string
	printerCommandsFetched bool
}

// NewDispatcher creates a dispatcher backed by the given printer API.
func NewDispatcher(api PrinterAPI, settings *config.Settings) *Dispatcher {
	return &Dispatcher{
		api:      api,
		printLog: NewPrintLog(config.ExpandPath(settings.PrintLogFile)),
		cache:    fileCache{ttl: settings.FileCacheTTL()},
	}
}

// PrintLog returns the print-completion log owned by this dispatcher.
func (d *Dispatcher) PrintLog() *PrintLog {
	return d.printLog
}

// Dispatch executes one submitted command and returns its output lines.
// currentFilename is the file recorded in print_stats at submit time,
// used by reprint. The caller is expected to have echoed the command
// already; Dispatch only produces result lines.
func (d *Dispatcher) Dispatch(text, currentFilename string) []Line {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	cmd := parse(text)
	switch cmd.kind {
	case cmdList:
		return d.listFiles(cmd.arg)
	case cmdPrint:
		return d.printFile(cmd.arg)
	case cmdInfo:
		return d.fileInfo(cmd.arg)
	case cmdReprint:
		return d.reprint(currentFilename)
	case cmdHistory:
		return d.showHistory()
	case cmdZOffset:
		return d.zOffset(cmd.arg)
	case cmdPause:
		return d.printAction("pause", d.api.PausePrint)
	case cmdResume:
		return d.printAction("resume", d.api.ResumePrint)
	case cmdCancel:
		return d.printAction("cancel", d.api.CancelPrint)
	case cmdHelp:
		return d.help()
	default:
		return d.sendGcode(text)
	}
}

func (d *Dispatcher) sendGcode(script string) []Line {
	if err := d.api.SendGcode(script); err != nil {
		return []Line{errorf("Failed to send command")}
	}
	// Success output arrives asynchronously as gcode response events
	return nil
}

func (d *Dispatcher) printFile(arg string) []Line {
	if arg == "" {
		return []Line{errorf("Usage: print <filename> or print #N")}
	}

	filename, errLine := d.resolveTarget(arg)
	if errLine != nil {
		return []Line{*errLine}
	}

	lines := []Line{info("Starting print: %s", filename)}
	if err := d.api.StartPrint(filename); err != nil {
		return append(lines, errorf("Failed to start print: %v", err))
	}
	return append(lines, info("Print started successfully"))
}

func (d *Dispatcher) reprint(currentFilename string) []Line {
	if currentFilename == "" {
		return []Line{errorf("No previous file to reprint")}
	}

	lines := []Line{info("Starting print: %s", currentFilename)}
	if err := d.api.StartPrint(currentFilename); err != nil {
		return append(lines, errorf("Failed to start print: %v", err))
	}
	return append(lines, info("Print started successfully"))
}

func (d *Dispatcher) fileInfo(arg string) []Line {
	if arg == "" {
		return []Line{errorf("Usage: info <filename> or info #N")}
	}

	filename, errLine := d.resolveTarget(arg)
	if errLine != nil {
		return []Line{*errLine}
	}

	meta, err := d.api.GetFileMetadata(filename)
	if err != nil {
		return []Line{errorf("Could not get info for: %s", filename)}
	}

	divider := strings.Repeat("=", 50)
	lines := []Line{
		info("%s", divider),
		info("File: %s", filename),
		info("%s", divider),
		info("Size: %s", formatSize(meta.Size)),
	}
	if meta.EstimatedTime > 0 {
		lines = append(lines, info("Estimated time: %s", formatDuration(meta.EstimatedTime)))
	}
	if meta.FilamentTotal > 0 {
		meters := meta.FilamentTotal / 1000
		lines = append(lines, info("Filament: %.1fm (~%.1fg)", meters, meters*gramsPerMeter))
	}
	if meta.FirstLayerHeight > 0 {
		lines = append(lines, info("First layer: %gmm", meta.FirstLayerHeight))
	}
	if meta.LayerHeight > 0 {
		lines = append(lines, info("Layer height: %gmm", meta.LayerHeight))
	}
	if meta.FirstLayerBedTemp > 0 {
		lines = append(lines, info("Bed temp: %g°C", meta.FirstLayerBedTemp))
	}
	if meta.FirstLayerExtrTemp > 0 {
		lines = append(lines, info("Hotend temp: %g°C", meta.FirstLayerExtrTemp))
	}
	if meta.Slicer != "" {
		lines = append(lines, info("Slicer: %s", meta.Slicer))
	}
	return append(lines, info("%s", divider))
}

func (d *Dispatcher) showHistory() []Line {
	entries, err := d.printLog.Tail(historyDisplayCount)
	if err != nil || len(entries) == 0 {
		return []Line{info("No print history found")}
	}

	divider := strings.Repeat("=", 70)
	lines := []Line{
		info("%s", divider),
		info("Print History (last %d)", historyDisplayCount),
		info("%s", divider),
	}
	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		marker := "x"
		if e.Status == StatusCompleted {
			marker = "ok"
		}
		lines = append(lines, info("[%s] %-2s %s - %s - %s", e.Timestamp, marker, e.Filename, e.Duration, e.Filament))
	}
	return append(lines, info("%s", divider))
}

func (d *Dispatcher) zOffset(arg string) []Line {
	if strings.EqualFold(arg, "save") {
		if err := d.api.SendGcode("SAVE_CONFIG"); err != nil {
			return []Line{errorf("Failed to save Z offset")}
		}
		return []Line{info("Z offset saved to config (printer will restart)")}
	}

	offset, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return []Line{errorf("Usage: z +0.05 | z -0.02 | z save")}
	}

	script := fmt.Sprintf("SET_GCODE_OFFSET Z_ADJUST=%g MOVE=1", offset)
	if err := d.api.SendGcode(script); err != nil {
		return []Line{errorf("Failed to adjust Z offset")}
	}
	return []Line{info("Z offset adjusted by %+.3fmm", offset)}
}

func (d *Dispatcher) printAction(name string, action func() error) []Line {
	if err := action(); err != nil {
		return []Line{errorf("Failed to %s print: %v", name, err)}
	}
	return []Line{info("Print %s requested", name)}
}

const (
	// historyDisplayCount is how many print log entries `history` shows.
	historyDisplayCount = 20

	// gramsPerMeter is the rough mass of 1m of 1.75mm PLA filament.
	gramsPerMeter = 2.4
)

func formatSize(size int64) string {
	if size > 1024*1024 {
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	}
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
