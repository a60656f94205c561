// Package config provides user configuration management for Mooncrescent.
//
// This package manages a YAML-based configuration file that stores printer
// connection details (host, port), the locations of the persisted command
// history and print-completion log, gcode response filters, and timing
// knobs for the UI and the connection manager. The configuration follows
// OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/mooncrescent/config.yaml or $HOME/.config/mooncrescent/config.yaml
//   - macOS: $HOME/.config/mooncrescent/config.yaml
//   - Windows: %LOCALAPPDATA%\mooncrescent\config.yaml
//
// A missing configuration file is not an error: Load returns defaults that
// point at a Moonraker instance on 127.0.0.1:7125.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	settings.Host = "mainsailos.local"
//	if err := settings.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Settings are passed into components at construction; there is no ambient
// global configuration state.
package config
