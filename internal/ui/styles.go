package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the printer console
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, connected
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, disconnected
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, paused
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
	CommandColor = lipgloss.Color("#56B6F4") // Blue - echoed commands
)

// Layout constants
const (
	MinTerminalWidth  = 60 // Minimum supported terminal width
	MaxContentWidth   = 90 // Maximum content width before capping
	DefaultViewHeight = 24 // Fallback height when size detection fails
)

// Shared styles
var (
	// TitleStyle is for the application header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// ConnectedStyle marks an established connection
	ConnectedStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// DisconnectedStyle marks a lost connection
	DisconnectedStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	// StatusLabelStyle is for status panel field names
	StatusLabelStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// StatusValueStyle is for status panel field values
	StatusValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// PrintingStyle highlights an active print state
	PrintingStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// PausedStyle highlights a paused print state
	PausedStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// CommandEchoStyle is for echoed user commands
	CommandEchoStyle = lipgloss.NewStyle().
				Foreground(CommandColor)

	// ResponseStyle is for ordinary printer output
	ResponseStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// ErrorLineStyle is for error output
	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// PromptStyle is for the input prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// CursorStyle renders the character under the cursor
	CursorStyle = lipgloss.NewStyle().
			Reverse(true)

	// HelpStyle is for the key hint line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ScrollMarkerStyle marks scrolled-back viewports
	ScrollMarkerStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	// DividerStyle is for horizontal separators
	DividerStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// GetTerminalSize returns the current terminal width and height, with
// fallbacks when detection fails.
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, DefaultViewHeight
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}
	return width, height
}
