package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j3k0/mooncrescent/internal/config"
	"github.com/j3k0/mooncrescent/internal/dispatch"
	"github.com/j3k0/mooncrescent/internal/editor"
	"github.com/j3k0/mooncrescent/internal/logging"
	"github.com/j3k0/mooncrescent/internal/moonraker"
	"github.com/j3k0/mooncrescent/internal/printer"
)

// maxScrollback bounds the terminal line buffer.
const maxScrollback = 1000

// tickMsg drives the periodic event drain and redraw.
type tickMsg time.Time

// dispatchDoneMsg carries the result lines of a dispatched command.
type dispatchDoneMsg struct {
	lines []dispatch.Line
}

// initialStateMsg carries the full status snapshot queried at startup.
type initialStateMsg struct {
	status map[string]map[string]any
	err    error
}

// Model is the top-level console model: status panel, terminal
// scrollback, and input line. It is the only writer of the printer
// state snapshot; the connection manager hands it events through a
// queue drained on each tick.
type Model struct {
	client     *moonraker.Client
	dispatcher *dispatch.Dispatcher
	settings   *config.Settings

	state printer.State
	line  *editor.Line

	// Terminal scrollback, oldest first. scroll counts lines scrolled
	// up from the bottom; 0 means following live output.
	lines  []dispatch.Line
	scroll int

	width  int
	height int

	connected bool

	// lastPrintState tracks print_stats.state across merges so
	// completed/cancelled transitions hit the print log exactly once.
	lastPrintState string

	help help.Model
	keys keyMap

	quitting bool
}

// NewModel assembles the console around an already-connected client.
func NewModel(client *moonraker.Client, dispatcher *dispatch.Dispatcher, settings *config.Settings) Model {
	history := editor.NewHistory()
	history.Load(config.ExpandPath(settings.HistoryFile))

	width, height := GetTerminalSize()

	return Model{
		client:     client,
		dispatcher: dispatcher,
		settings:   settings,
		state:      printer.NewState(),
		line:       editor.NewLine(history),
		width:      width,
		height:     height,
		connected:  client.Connected(),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the tick loop and queries the initial status snapshot.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.queryInitialState())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.settings.RedrawInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) queryInitialState() tea.Cmd {
	return func() tea.Msg {
		status, err := m.client.QueryObjects()
		return initialStateMsg{status: status, err: err}
	}
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.drainEvents()
		return m, m.tick()

	case initialStateMsg:
		if msg.err == nil {
			m.state.ApplyFull(msg.status)
			m.lastPrintState = m.state.PrintState()
		}
		return m, nil

	case dispatchDoneMsg:
		m.appendLines(msg.lines...)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.HistoryUp):
		m.line.HistoryUp()
		return m, nil

	case key.Matches(msg, m.keys.HistoryDn):
		m.line.HistoryDown()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		return m.complete()

	case key.Matches(msg, m.keys.ScrollUp):
		m.scroll += m.terminalHeight() / 2
		if max := len(m.lines) - 1; m.scroll > max {
			m.scroll = max
		}
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.scroll -= m.terminalHeight() / 2
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyLeft:
		m.line.Move(-1)
	case tea.KeyRight:
		m.line.Move(1)
	case tea.KeyHome, tea.KeyCtrlA:
		m.line.Home()
	case tea.KeyEnd, tea.KeyCtrlE:
		m.line.End()
	case tea.KeyBackspace:
		m.line.Backspace()
	case tea.KeyDelete:
		m.line.Delete()
	case tea.KeySpace:
		m.line.Insert(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.line.Insert(r)
		}
	}
	return m, nil
}

// submit echoes the command immediately and runs the dispatch on a
// worker so a slow HTTP round trip never freezes the loop. State values
// the dispatch needs are resolved here, before the worker starts.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.line.Submit()
	if text == "" {
		return m, nil
	}

	m.appendLines(dispatch.Line{Text: "> " + text, Severity: dispatch.SeverityCommand})
	m.scroll = 0

	currentFilename := m.state.Filename()
	d := m.dispatcher
	return m, func() tea.Msg {
		return dispatchDoneMsg{lines: d.Dispatch(text, currentFilename)}
	}
}

func (m Model) complete() (tea.Model, tea.Cmd) {
	text, candidates := m.dispatcher.Complete(m.line.Text())
	m.line.SetText(text)
	if len(candidates) > 1 {
		m.appendLines(dispatch.Line{Text: strings.Join(candidates, "  "), Severity: dispatch.SeverityInfo})
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.line.History().Save(config.ExpandPath(m.settings.HistoryFile))
	m.client.Disconnect()
	logging.Sync()
	return m, tea.Quit
}

// drainEvents empties the client queue, merging status payloads and
// turning everything else into terminal lines.
func (m *Model) drainEvents() {
	for {
		ev, ok := m.client.Poll()
		if !ok {
			return
		}
		m.applyEvent(ev)
	}
}

func (m *Model) applyEvent(ev moonraker.Event) {
	switch ev.Kind {
	case moonraker.EventStatusUpdate:
		if ev.Full {
			m.state.ApplyFull(ev.Status)
		} else {
			m.state.ApplyPartial(ev.Status)
		}
		m.observePrintState()

	case moonraker.EventGcodeResponse:
		if m.filtered(ev.Response) {
			return
		}
		severity := dispatch.SeverityInfo
		if strings.HasPrefix(ev.Response, "!!") {
			severity = dispatch.SeverityError
		}
		m.appendLines(dispatch.Line{Text: ev.Response, Severity: severity})

	case moonraker.EventConnectionChanged:
		m.connected = ev.Connected
		if ev.Connected {
			m.appendLines(dispatch.Line{Text: "Connected to printer", Severity: dispatch.SeverityInfo})
		} else {
			m.appendLines(dispatch.Line{Text: "Connection lost, retrying...", Severity: dispatch.SeverityError})
		}

	case moonraker.EventError:
		m.appendLines(dispatch.Line{Text: ev.Message, Severity: dispatch.SeverityError})
	}
}

// observePrintState appends finished prints to the completion log when
// print_stats.state leaves printing or paused.
func (m *Model) observePrintState() {
	current := m.state.PrintState()
	if current == m.lastPrintState {
		return
	}
	prev := m.lastPrintState
	m.lastPrintState = current

	wasActive := prev == "printing" || prev == "paused"
	if !wasActive {
		return
	}

	var status string
	switch current {
	case "complete":
		status = dispatch.StatusCompleted
	case "cancelled", "standby", "error":
		status = dispatch.StatusCancelled
	default:
		return
	}

	duration, _ := m.state.FloatField("print_stats", "print_duration")
	filament, _ := m.state.FloatField("print_stats", "filament_used")
	m.dispatcher.PrintLog().Append(m.state.Filename(), status, duration, filament)
}

// filtered reports whether a gcode response should be suppressed.
func (m *Model) filtered(response string) bool {
	trimmed := strings.TrimSpace(response)
	if m.settings.FilterOKResponses && trimmed == "ok" {
		return true
	}
	for _, pattern := range m.settings.FilterPatterns {
		if pattern != "" && strings.Contains(response, pattern) {
			return true
		}
	}
	return false
}

func (m *Model) appendLines(lines ...dispatch.Line) {
	m.lines = append(m.lines, lines...)
	if len(m.lines) > maxScrollback {
		m.lines = m.lines[len(m.lines)-maxScrollback:]
	}
	// Keep the scrolled view anchored while new lines arrive
	if m.scroll > 0 {
		m.scroll += len(lines)
		if max := len(m.lines) - 1; m.scroll > max {
			m.scroll = max
		}
	}
}
