package dispatch

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j3k0/mooncrescent/internal/config"
	"github.com/j3k0/mooncrescent/internal/moonraker"
)

// stubAPI is a PrinterAPI stub recording the calls it receives.
type stubAPI struct {
	files       []moonraker.FileInfo
	macros      []string
	listErr     error
	gcodeErr    error
	startErr    error
	sentGcode   []string
	startedFile []string
	paused      int
	resumed     int
	cancelled   int
}

func (s *stubAPI) SendGcode(script string) error {
	s.sentGcode = append(s.sentGcode, script)
	return s.gcodeErr
}

func (s *stubAPI) StartPrint(filename string) error {
	s.startedFile = append(s.startedFile, filename)
	return s.startErr
}

func (s *stubAPI) PausePrint() error  { s.paused++; return nil }
func (s *stubAPI) ResumePrint() error { s.resumed++; return nil }
func (s *stubAPI) CancelPrint() error { s.cancelled++; return nil }

func (s *stubAPI) ListFiles() ([]moonraker.FileInfo, error) {
	return s.files, s.listErr
}

func (s *stubAPI) GetFileMetadata(filename string) (*moonraker.FileMetadata, error) {
	return &moonraker.FileMetadata{Size: 1024, EstimatedTime: 3600}, nil
}

func (s *stubAPI) Macros() ([]string, error) {
	return s.macros, nil
}

func (s *stubAPI) GcodeHelp() (map[string]string, error) {
	return nil, nil
}

func newTestDispatcher(t *testing.T, api PrinterAPI) *Dispatcher {
	t.Helper()
	settings := config.NewSettings()
	settings.PrintLogFile = filepath.Join(t.TempDir(), "print_history")
	return NewDispatcher(api, settings)
}

// three files sorted oldest first, benchy newest
func testFiles() []moonraker.FileInfo {
	return []moonraker.FileInfo{
		{Path: "calibration_cube.gcode", Size: 1000, Modified: 1700000000},
		{Path: "phone_stand_tpu.gcode", Size: 2000, Modified: 1700003600},
		{Path: "benchy.gcode", Size: 3000, Modified: 1700007200},
	}
}

func joinLines(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		wantKind commandKind
		wantArg  string
	}{
		{"ls", cmdList, ""},
		{"LS *tpu*", cmdList, "*tpu*"},
		{"ls -l", cmdList, "-l"},
		{"print benchy.gcode", cmdPrint, "benchy.gcode"},
		{"print #0", cmdPrint, "#0"},
		{"print", cmdPrint, ""},
		{"info #2", cmdInfo, "#2"},
		{"reprint", cmdReprint, ""},
		{"REPRINT", cmdReprint, ""},
		{"history", cmdHistory, ""},
		{"z +0.05", cmdZOffset, "+0.05"},
		{"z save", cmdZOffset, "save"},
		{"pause", cmdPause, ""},
		{"resume", cmdResume, ""},
		{"cancel", cmdCancel, ""},
		{"help", cmdHelp, ""},
		{"?", cmdHelp, ""},
		{"G28", cmdGcode, ""},
		{"M104 S200", cmdGcode, ""},
		{"lsx", cmdGcode, ""},
		{"printer_restart", cmdGcode, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := parse(tt.text)
			if got.kind != tt.wantKind {
				t.Errorf("parse(%q).kind = %d, want %d", tt.text, got.kind, tt.wantKind)
			}
			if got.arg != tt.wantArg {
				t.Errorf("parse(%q).arg = %q, want %q", tt.text, got.arg, tt.wantArg)
			}
		})
	}
}

func TestDispatchGcodePassthrough(t *testing.T) {
	api := &stubAPI{}
	d := newTestDispatcher(t, api)

	lines := d.Dispatch("M104 S200", "")
	if len(lines) != 0 {
		t.Errorf("expected no immediate output for gcode, got %v", lines)
	}
	if len(api.sentGcode) != 1 || api.sentGcode[0] != "M104 S200" {
		t.Errorf("sent gcode = %v, want [M104 S200]", api.sentGcode)
	}
}

func TestDispatchGcodeFailure(t *testing.T) {
	api := &stubAPI{gcodeErr: errors.New("boom")}
	d := newTestDispatcher(t, api)

	lines := d.Dispatch("G28", "")
	if len(lines) != 1 || lines[0].Severity != SeverityError {
		t.Fatalf("expected one error line, got %v", lines)
	}
}

func TestListAssignsNewestFirstIDs(t *testing.T) {
	api := &stubAPI{files: testFiles()}
	d := newTestDispatcher(t, api)

	out := joinLines(d.Dispatch("ls", ""))
	if !strings.Contains(out, "Found 3 file(s)") {
		t.Fatalf("unexpected listing output:\n%s", out)
	}

	// #0 must be the newest file
	lines := d.Dispatch("print #0", "")
	if len(api.startedFile) != 1 || api.startedFile[0] != "benchy.gcode" {
		t.Errorf("print #0 started %v, want [benchy.gcode]", api.startedFile)
	}
	if lines[len(lines)-1].Text != "Print started successfully" {
		t.Errorf("unexpected final line: %v", lines[len(lines)-1])
	}
}

func TestUnknownFileID(t *testing.T) {
	api := &stubAPI{files: testFiles()}
	d := newTestDispatcher(t, api)

	d.Dispatch("ls", "")
	lines := d.Dispatch("print #9", "")
	if len(lines) != 1 || lines[0].Severity != SeverityError {
		t.Fatalf("expected one error line, got %v", lines)
	}
	if !strings.Contains(lines[0].Text, "#9") {
		t.Errorf("error should name the bad id: %q", lines[0].Text)
	}
	if len(api.startedFile) != 0 {
		t.Errorf("no print should have started, got %v", api.startedFile)
	}
}

func TestIDWithoutPriorListing(t *testing.T) {
	api := &stubAPI{files: testFiles()}
	d := newTestDispatcher(t, api)

	// No ls yet: the dispatcher builds an id map from a fresh fetch
	d.Dispatch("print #1", "")
	if len(api.startedFile) != 1 || api.startedFile[0] != "phone_stand_tpu.gcode" {
		t.Errorf("print #1 started %v, want [phone_stand_tpu.gcode]", api.startedFile)
	}
}

func TestFilteredListingRedefinesIDs(t *testing.T) {
	api := &stubAPI{files: testFiles()}
	d := newTestDispatcher(t, api)

	out := joinLines(d.Dispatch("ls *tpu*", ""))
	if !strings.Contains(out, "phone_stand_tpu.gcode") || strings.Contains(out, "benchy") {
		t.Fatalf("filter failed:\n%s", out)
	}

	// #0 now refers to the filtered set's newest entry
	d.Dispatch("print #0", "")
	if len(api.startedFile) != 1 || api.startedFile[0] != "phone_stand_tpu.gcode" {
		t.Errorf("print #0 after filtered ls started %v, want [phone_stand_tpu.gcode]", api.startedFile)
	}
}

func TestListNoMatches(t *testing.T) {
	api := &stubAPI{files: testFiles()}
	d := newTestDispatcher(t, api)

	out := joinLines(d.Dispatch("ls *nothing*", ""))
	if !strings.Contains(out, "No files matching") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestListError(t *testing.T) {
	api := &stubAPI{listErr: errors.New("down")}
	d := newTestDispatcher(t, api)

	lines := d.Dispatch("ls", "")
	if len(lines) != 1 || lines[0].Severity != SeverityError {
		t.Fatalf("expected one error line, got %v", lines)
	}
}

func TestPrintLiteralFilename(t *testing.T) {
	api := &stubAPI{}
	d := newTestDispatcher(t, api)

	d.Dispatch("print benchy.gcode", "")
	if len(api.startedFile) != 1 || api.startedFile[0] != "benchy.gcode" {
		t.Errorf("started %v, want [benchy.gcode]", api.startedFile)
	}
}

func TestPrintUsage(t *testing.T) {
	api := &stubAPI{}
	d := newTestDispatcher(t, api)

	lines := d.Dispatch("print", "")
	if len(lines) != 1 || !strings.Contains(lines[0].Text, "Usage") {
		t.Errorf("expected usage error, got %v", lines)
	}
}

func TestReprint(t *testing.T) {
	api := &stubAPI{}
	d := newTestDispatcher(t, api)

	lines := d.Dispatch("reprint", "")
	if len(lines) != 1 || lines[0].Severity != SeverityError {
		t.Errorf("reprint with no previous file should error, got %v", lines)
	}

	d.Dispatch("reprint", "benchy.gcode")
	if len(api.startedFile) != 1 || api.startedFile[0] != "benchy.gcode" {
		t.Errorf("reprint started %v, want [benchy.gcode]", api.startedFile)
	}
}

func TestZOffset(t *testing.T) {
	tests := []struct {
		arg      string
		wantSend string
		wantErr  bool
	}{
		{"+0.05", "SET_GCODE_OFFSET Z_ADJUST=0.05 MOVE=1", false},
		{"-0.02", "SET_GCODE_OFFSET Z_ADJUST=-0.02 MOVE=1", false},
		{"save", "SAVE_CONFIG", false},
		{"up", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			api := &stubAPI{}
			d := newTestDispatcher(t, api)

			lines := d.Dispatch("z "+tt.arg, "")
			if tt.wantErr {
				if len(lines) != 1 || lines[0].Severity != SeverityError {
					t.Errorf("expected error, got %v", lines)
				}
				if len(api.sentGcode) != 0 {
					t.Errorf("no gcode should be sent, got %v", api.sentGcode)
				}
				return
			}
			if len(api.sentGcode) != 1 || api.sentGcode[0] != tt.wantSend {
				t.Errorf("sent %v, want [%s]", api.sentGcode, tt.wantSend)
			}
		})
	}
}

func TestPrintControl(t *testing.T) {
	api := &stubAPI{}
	d := newTestDispatcher(t, api)

	d.Dispatch("pause", "")
	d.Dispatch("resume", "")
	d.Dispatch("cancel", "")

	if api.paused != 1 || api.resumed != 1 || api.cancelled != 1 {
		t.Errorf("pause/resume/cancel = %d/%d/%d, want 1/1/1", api.paused, api.resumed, api.cancelled)
	}
}

func TestHelpListsMacros(t *testing.T) {
	api := &stubAPI{macros: []string{"LOAD_FILAMENT", "UNLOAD_FILAMENT"}}
	d := newTestDispatcher(t, api)

	out := joinLines(d.Dispatch("help", ""))
	if !strings.Contains(out, "LOAD_FILAMENT") || !strings.Contains(out, "UNLOAD_FILAMENT") {
		t.Errorf("help should list macros:\n%s", out)
	}
	if !strings.Contains(out, "z save") {
		t.Errorf("help should document z save:\n%s", out)
	}
}

func TestComplete(t *testing.T) {
	api := &stubAPI{macros: []string{"LOAD_FILAMENT"}, files: testFiles()}
	d := newTestDispatcher(t, api)

	tests := []struct {
		in         string
		want       string
		candidates int
	}{
		{"hist", "history", 0},
		{"repr", "reprint", 0},
		{"LOAD", "LOAD_FILAMENT", 0},
		{"print ben", "print benchy.gcode", 0},
		{"info cal", "info calibration_cube.gcode", 0},
		{"zzz", "zzz", 0},
		{"", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, candidates := d.Complete(tt.in)
			if got != tt.want {
				t.Errorf("Complete(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(candidates) != tt.candidates {
				t.Errorf("Complete(%q) candidates = %v, want %d", tt.in, candidates, tt.candidates)
			}
		})
	}
}

func TestCompleteAmbiguous(t *testing.T) {
	api := &stubAPI{}
	d := newTestDispatcher(t, api)

	got, candidates := d.Complete("G2")
	if got != "G28" {
		t.Errorf("Complete(G2) = %q, want common prefix G28", got)
	}
	if len(candidates) < 2 {
		t.Errorf("expected multiple candidates, got %v", candidates)
	}
}
