package dispatch

import "strings"

// commonGcodes are well-known commands offered in help and completion.
var commonGcodes = []string{
	"G28", "G28 X", "G28 Y", "G28 Z", "G28 X Y",
	"G0", "G1", "G90", "G91",
	"M104", "M105", "M109", "M140", "M190",
	"M106", "M107", "M114", "M115",
	"M84", "M112", "FIRMWARE_RESTART",
}

// localCommands are the dispatcher's own command words.
var localCommands = []string{
	"ls", "ls -l", "print", "reprint", "info", "history", "z",
	"pause", "resume", "cancel", "help",
}

func (d *Dispatcher) help() []Line {
	divider := strings.Repeat("=", 50)
	lines := []Line{
		info("%s", divider),
		info("HELP - Available Commands"),
		info("%s", divider),
		info(""),
		info("File Management:"),
		info("  ls [pattern]       - List files (e.g., ls *TPU*)"),
		info("  ls -l [pattern]    - List with details (#ID, time, filament)"),
		info("  print <file>|#N    - Start printing (e.g., print #0)"),
		info("  reprint            - Reprint the last file"),
		info("  info <file>|#N     - Show detailed info (e.g., info #0)"),
		info("  history            - Show print history"),
		info(""),
		info("  Note: #0 = newest file, #1 = second newest, etc."),
		info(""),
		info("Print Control:"),
		info("  pause | resume | cancel"),
		info(""),
		info("Z-Offset Control:"),
		info("  z +0.05            - Raise nozzle by 0.05mm"),
		info("  z -0.02            - Lower nozzle by 0.02mm"),
		info("  z save             - Save Z offset to config"),
		info(""),
		info("Common G-code Commands:"),
		info("  G28        - Home all axes"),
		info("  M104 S200  - Set hotend temp to 200°C"),
		info("  M140 S60   - Set bed temp to 60°C"),
		info("  M106 S255  - Fan on (full speed)"),
		info("  M107       - Fan off"),
		info("  M114       - Get current position"),
	}

	if macros, err := d.api.Macros(); err == nil && len(macros) > 0 {
		lines = append(lines, info(""), info("Available Macros:"))
		for _, macro := range macros {
			lines = append(lines, info("  %s", macro))
		}
	} else {
		lines = append(lines, info(""), info("(No macros found or unable to query)"))
	}

	lines = append(lines,
		info(""),
		info("Keyboard Shortcuts:"),
		info("  Tab        - Auto-complete command"),
		info("  Up/Down    - Command history"),
		info("  PgUp/PgDn  - Scroll terminal"),
		info("  ESC/Ctrl-D - Quit"),
		info("%s", divider),
	)
	return lines
}
