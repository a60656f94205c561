// Mooncrescent is a terminal console for Klipper 3D printers.
//
// It connects to a Moonraker daemon over WebSocket for live telemetry
// and gcode responses, and over HTTP for commands. The console renders
// printer status, a scrolling terminal, and a line editor with history
// and tab completion.
//
// Usage:
//
//	mooncrescent [command] [flags]
//
// Running without arguments opens the console using the configured
// printer address. See 'mooncrescent --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/j3k0/mooncrescent/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mooncrescent",
	Short: "Klipper printer console",
	Long: `A terminal console for Klipper 3D printers via Moonraker.

Streams live telemetry over WebSocket, sends gcode and print commands
over HTTP, and provides a line editor with history, tab completion and
a print-completion log.`,
	Version: version.Version,
	RunE:    runConsole,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mooncrescent %s (commit: %s)\n", version.Version, version.Commit)
	},
}
