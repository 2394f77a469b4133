package miner

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads miner configuration from Viper, falling back to
// defaults for anything unset.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("preparation") {
		cfg.Preparation = viper.GetString("preparation")
	}
	if viper.IsSet("conclusion") {
		cfg.Conclusion = viper.GetString("conclusion")
	}
	if viper.IsSet("repeats") {
		cfg.Repeats = viper.GetInt("repeats")
	}
	if viper.IsSet("interval") {
		d, err := time.ParseDuration(viper.GetString("interval"))
		if err != nil {
			return cfg, fmt.Errorf("%w: interval: %v", ErrInvalidConfig, err)
		}
		cfg.Interval = d
	}

	if viper.IsSet("mantras") {
		var mantras []Mantra
		if err := viper.UnmarshalKey("mantras", &mantras); err != nil {
			return cfg, fmt.Errorf("%w: mantras: %v", ErrInvalidConfig, err)
		}
		cfg.Mantras = mantras
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// SetDefaults sets default values in Viper for miner configuration.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("preparation", defaults.Preparation)
	viper.SetDefault("conclusion", defaults.Conclusion)
	viper.SetDefault("repeats", defaults.Repeats)
	viper.SetDefault("interval", defaults.Interval.String())
}
