// Package logging provides structured logging for Mooncrescent.
//
// Logging is silent by default so it never paints over the TUI. Set the
// MOONCRESCENT_LOG_LEVEL environment variable (debug, info, warn, error)
// to enable output; enabled output goes to a log file in the user cache
// directory, or to MOONCRESCENT_LOG_FILE when set.
package logging
