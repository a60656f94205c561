package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/j3k0/mooncrescent/internal/dispatch"
)

// Fixed chrome rows: header, status, temps, divider, input, help.
const chromeRows = 6

// terminalHeight returns the rows available for scrollback output.
func (m Model) terminalHeight() int {
	h := m.height - chromeRows
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the whole console. Rendering is pure: the same model
// always produces the same string.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(DividerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.renderTerminal())
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("mooncrescent")
	target := StatusLabelStyle.Render(fmt.Sprintf(" %s:%d ", m.client.Host(), m.client.Port()))

	var conn string
	if m.connected {
		conn = ConnectedStyle.Render("● connected")
	} else {
		conn = DisconnectedStyle.Render("● disconnected")
	}
	return title + target + conn
}

func (m Model) renderStatus() string {
	printState := m.state.PrintState()
	if printState == "" {
		printState = "unknown"
	}

	var stateStr string
	switch printState {
	case "printing":
		stateStr = PrintingStyle.Render(printState)
	case "paused":
		stateStr = PausedStyle.Render(printState)
	case "error":
		stateStr = ErrorLineStyle.Render(printState)
	default:
		stateStr = StatusValueStyle.Render(printState)
	}

	line1 := StatusLabelStyle.Render("State: ") + stateStr
	if filename := m.state.Filename(); filename != "" {
		line1 += StatusLabelStyle.Render("  File: ") + StatusValueStyle.Render(filename)
		line1 += StatusValueStyle.Render(fmt.Sprintf(" (%.0f%%)", m.state.Progress()*100))
	}

	line2 := StatusLabelStyle.Render("Hotend: ") + StatusValueStyle.Render(m.renderTemp("extruder"))
	line2 += StatusLabelStyle.Render("  Bed: ") + StatusValueStyle.Render(m.renderTemp("heater_bed"))
	if z, ok := m.toolheadZ(); ok {
		line2 += StatusLabelStyle.Render("  Z: ") + StatusValueStyle.Render(fmt.Sprintf("%.2f", z))
	}

	return line1 + "\n" + line2
}

func (m Model) renderTemp(heater string) string {
	temp, ok := m.state.FloatField(heater, "temperature")
	if !ok {
		return "--"
	}
	target, _ := m.state.FloatField(heater, "target")
	if target > 0 {
		return fmt.Sprintf("%.1f/%.0f°C", temp, target)
	}
	return fmt.Sprintf("%.1f°C", temp)
}

// toolheadZ pulls the Z coordinate out of toolhead.position.
func (m Model) toolheadZ() (float64, bool) {
	position, ok := m.state.Field("toolhead", "position").([]any)
	if !ok || len(position) < 3 {
		return 0, false
	}
	z, ok := position[2].(float64)
	return z, ok
}

func (m Model) renderTerminal() string {
	height := m.terminalHeight()
	if m.scroll > 0 {
		// Reserve the last row for the scroll marker
		height--
	}

	end := len(m.lines) - m.scroll
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	visible := m.lines[start:end]

	var b strings.Builder
	for i := 0; i < height; i++ {
		if i < len(visible) {
			b.WriteString(m.renderLine(visible[i]))
		}
		b.WriteString("\n")
	}
	if m.scroll > 0 {
		b.WriteString(ScrollMarkerStyle.Render(fmt.Sprintf("-- scrolled up %d lines (pgdn to follow) --", m.scroll)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderLine(line dispatch.Line) string {
	text := truncateRunes(line.Text, m.width)
	switch line.Severity {
	case dispatch.SeverityCommand:
		return CommandEchoStyle.Render(text)
	case dispatch.SeverityError:
		return ErrorLineStyle.Render(text)
	default:
		return ResponseStyle.Render(text)
	}
}

// renderInput draws the prompt with a block cursor. The editor keeps
// the cursor on a rune boundary, so the full rune under it is styled.
func (m Model) renderInput() string {
	text := m.line.Text()
	cursor := m.line.Cursor()

	var body string
	switch {
	case cursor >= len(text):
		body = text + CursorStyle.Render(" ")
	default:
		_, size := utf8.DecodeRuneInString(text[cursor:])
		body = text[:cursor] + CursorStyle.Render(text[cursor:cursor+size]) + text[cursor+size:]
	}
	return PromptStyle.Render("> ") + body
}

// truncateRunes cuts text to at most width runes, never splitting a
// multi-byte character.
func truncateRunes(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return text
	}
	runes := []rune(text)
	return string(runes[:width])
}
