package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "mooncrescent"
	configFile = "config.yaml"
)

// Settings represents the user configuration file.
type Settings struct {
	Version int `yaml:"version"`

	// Printer connection
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Persisted files
	HistoryFile  string `yaml:"history_file"`
	PrintLogFile string `yaml:"print_log_file"`

	// Terminal output filtering for gcode responses
	FilterPatterns    []string `yaml:"filter_patterns,omitempty"`
	FilterOKResponses bool     `yaml:"filter_ok_responses"`

	// Timing knobs, in the unit named by the field
	RedrawIntervalMS  int `yaml:"redraw_interval_ms"`
	RetryDelaySec     int `yaml:"retry_delay_sec"`
	FileCacheTTLSec   int `yaml:"file_cache_ttl_sec"`
	GcodeTimeoutSec   int `yaml:"gcode_timeout_sec"`
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:      1,
		Host:         "127.0.0.1",
		Port:         7125,
		HistoryFile:  "~/.mooncrescent_history",
		PrintLogFile: "~/.mooncrescent_print_history",
		FilterPatterns: []string{
			"// pressure_advance:",
		},
		FilterOKResponses: false,
		RedrawIntervalMS:  100,
		RetryDelaySec:     5,
		FileCacheTTLSec:   30,
		GcodeTimeoutSec:   120,
		RequestTimeoutSec: 5,
	}
}

// RedrawInterval returns the UI redraw cadence.
func (s *Settings) RedrawInterval() time.Duration {
	return time.Duration(s.RedrawIntervalMS) * time.Millisecond
}

// RetryDelay returns the delay between WebSocket reconnect attempts.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySec) * time.Second
}

// FileCacheTTL returns the staleness window for the cached file listing.
func (s *Settings) FileCacheTTL() time.Duration {
	return time.Duration(s.FileCacheTTLSec) * time.Second
}

// GcodeTimeout returns the long timeout used for gcode script submission.
func (s *Settings) GcodeTimeout() time.Duration {
	return time.Duration(s.GcodeTimeoutSec) * time.Second
}

// RequestTimeout returns the timeout for one-shot HTTP queries.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

// GetConfigDir returns the OS-appropriate configuration directory.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/mooncrescent or $HOME/.config/mooncrescent
//   - macOS: $HOME/.config/mooncrescent (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\mooncrescent
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load loads settings from disk.
// If the file doesn't exist, returns default settings.
func Load() (*Settings, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return NewSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so new fields stay sane for old config files
	settings := NewSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", settings.Version)
	}

	return settings, nil
}

// Save saves the settings to disk.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Mooncrescent Configuration File
# Connection and UI settings for the Moonraker terminal client.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// ExpandPath expands a leading "~/" to the user home directory.
// Paths that cannot be expanded are returned unchanged.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
