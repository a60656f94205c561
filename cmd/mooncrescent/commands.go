package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j3k0/mooncrescent/internal/config"
	"github.com/j3k0/mooncrescent/internal/discovery"
	"github.com/j3k0/mooncrescent/internal/dispatch"
	"github.com/j3k0/mooncrescent/internal/logging"
	"github.com/j3k0/mooncrescent/internal/moonraker"
	"github.com/j3k0/mooncrescent/internal/ui"
)

// Console command flags
var (
	hostFlag    string
	portFlag    int
	scanTimeout int
)

func init() {
	rootCmd.Flags().StringVar(&hostFlag, "host", "", "Moonraker host (overrides config)")
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Moonraker port (overrides config)")

	rootCmd.AddCommand(discoverCmd)
}

// runConsole connects to the printer and hands the terminal to the
// console model until the user quits.
func runConsole(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if hostFlag != "" {
		settings.Host = hostFlag
	}
	if portFlag != 0 {
		settings.Port = portFlag
	}

	client := moonraker.NewClient(settings.Host, settings.Port, moonraker.Options{
		RetryDelay:     settings.RetryDelay(),
		GcodeTimeout:   settings.GcodeTimeout(),
		RequestTimeout: settings.RequestTimeout(),
	})
	if err := client.Connect(); err != nil {
		return fmt.Errorf("cannot connect to %s:%d: %w (try 'mooncrescent discover')", settings.Host, settings.Port, err)
	}

	dispatcher := dispatch.NewDispatcher(client, settings)
	model := ui.NewModel(client, dispatcher, settings)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		client.Disconnect()
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}

// discoverCmd finds Moonraker instances via mDNS
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Moonraker printers on the network",
	Long: `Discover Moonraker instances using mDNS/DNS-SD.

This command listens for mDNS broadcasts from Moonraker daemons and
displays all discovered printers with their addresses.`,
	Example: `  # Scan with the default 5-second window
  mooncrescent discover

  # Longer scan for slower networks
  mooncrescent discover --timeout 15`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Moonraker printers (timeout: %ds)...\n\n", scanTimeout)

	printers, err := discovery.ScanForPrinters(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(printers) == 0 {
		fmt.Println("No printers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the printer and Moonraker are running")
		fmt.Println("  - Check that mDNS traffic is allowed on your network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --host to specify the address manually")
		return nil
	}

	fmt.Printf("Found %d printer(s):\n\n", len(printers))
	for i, p := range printers {
		fmt.Printf("%d. %s\n", i+1, p.Hostname)
		fmt.Printf("   Address: %s\n", p.Address())
		if v := p.GetMetadata("version"); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}

	fmt.Println("Use 'mooncrescent --host <ip>' to connect")
	return nil
}
