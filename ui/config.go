package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	HomeDir string `env:"HOME"`

	// Word-wrap width for the recitation body.
	MaxWidth uint

	// For debugging the UI
	PollInterval time.Duration `env:"MANTRA_UI_POLL_INTERVAL" envDefault:"50ms"`
	ShowFullHelp bool          `env:"MANTRA_UI_FULL_HELP"     envDefault:"false"`
}
