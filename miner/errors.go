package miner

import "errors"

// Common errors for the mantra miner.
var (
	// Configuration errors, surfaced synchronously at construction.
	ErrEmptyMantra   = errors.New("mantra text is empty")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Control errors, local to the offending control call. The tick loop
	// itself never produces errors.
	ErrAlreadyStarted = errors.New("miner already started")
	ErrNotRunning     = errors.New("miner is not running")
	ErrNotPaused      = errors.New("miner is not paused")
	ErrStopped        = errors.New("miner has been stopped")
)

// IsConfigError reports whether err is a configuration error, i.e. one that
// can only occur while constructing a miner, never during ticking.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrEmptyMantra) || errors.Is(err, ErrInvalidConfig)
}
