package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// setupLog configures the global logger. Logging is discarded unless
// MANTRA_LOGFILE is set; the returned closer flushes the log file.
func setupLog() (func() error, error) {
	// Log to file, if set
	logFile := os.Getenv("MANTRA_LOGFILE")
	if logFile == "" {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("error setting up log file: %w", err)
	}

	log.SetOutput(f)
	log.SetReportTimestamp(true)
	if viper.GetBool("debug") || os.Getenv("MANTRA_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	return f.Close, nil
}
