package miner

import (
	"fmt"
	"time"
)

// Mantra describes one mantra within a session. The text is recited
// syllable by syllable, where syllables are whitespace-delimited words.
type Mantra struct {
	// Text is the mantra itself. Must not be blank.
	Text string `yaml:"text"`

	// Repeats is the number of times this mantra is recited per cycle.
	// Zero means once.
	Repeats int `yaml:"repeats"`
}

// Config contains all mantra miner configuration options. Scalar fields can
// also be set through MANTRA_* environment variables, handled by Viper's
// automatic env binding in LoadConfigFromViper.
//
// A traditional sadhana consists of three parts: the preparation (taking
// refuge and arising bodhicitta), the main body (the mantras themselves), and
// the conclusion (dedicating the merit). Preparation and conclusion are
// recited character by character; mantras syllable by syllable.
type Config struct {
	// Preparation is optional text recited before the mantras each cycle.
	Preparation string `yaml:"preparation"`

	// Mantras is the main body of the practice. At least one is required.
	Mantras []Mantra `yaml:"mantras"`

	// Conclusion is optional text recited after the mantras each cycle.
	Conclusion string `yaml:"conclusion"`

	// Repeats is the number of times to recite the entire sadhana. Zero
	// means repeat indefinitely until the miner is stopped.
	Repeats int `yaml:"repeats"`

	// Interval is the pause between units. The loop makes no hard
	// real-time guarantee; drift is acceptable.
	Interval time.Duration `yaml:"interval"`
}

// DefaultConfig returns a Config with sensible defaults: the six-syllable
// mantra of Avalokiteshvara, recited in the traditional round of 108.
func DefaultConfig() Config {
	return Config{
		Mantras: []Mantra{
			{Text: "om mani padme hum", Repeats: 108},
		},
		Repeats:  1,
		Interval: 100 * time.Millisecond,
	}
}

// Validate checks if the configuration is valid. All configuration errors
// surface here, synchronously, never during ticking.
func (c *Config) Validate() error {
	if len(c.Mantras) == 0 {
		return fmt.Errorf("%w: no mantras configured", ErrEmptyMantra)
	}

	for i, m := range c.Mantras {
		if len(splitSyllables(m.Text)) == 0 {
			return fmt.Errorf("%w: mantra %d", ErrEmptyMantra, i)
		}
		if m.Repeats < 0 {
			return fmt.Errorf("%w: mantra %d repeats must not be negative, got %d", ErrInvalidConfig, i, m.Repeats)
		}
	}

	if c.Repeats < 0 {
		return fmt.Errorf("%w: repeats must not be negative, got %d", ErrInvalidConfig, c.Repeats)
	}

	if c.Interval < time.Millisecond {
		return fmt.Errorf("%w: interval must be at least 1ms, got %v", ErrInvalidConfig, c.Interval)
	}

	return nil
}

// repeatForever returns whether the session repeats until stopped.
func (c *Config) repeatForever() bool {
	return c.Repeats == 0
}
