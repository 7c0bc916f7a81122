// Package config loads runtime settings from the environment.
package config

import (
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds every setting of the healthregen program.
//
// Variables are matched by the config tag, for example
// HEALTHREGEN_TICK_INTERVAL=100ms.
type Config struct {
	// TickInterval is the host tick period. Zero ticks as fast as possible.
	TickInterval time.Duration `config:"HEALTHREGEN_TICK_INTERVAL"`
	// MaxTicks stops the program after that many ticks. Zero runs until terminated.
	MaxTicks uint64 `config:"HEALTHREGEN_MAX_TICKS"`
	// Window drives the scheduler from an Ebiten window with a Dear ImGui overlay.
	Window    bool   `config:"HEALTHREGEN_WINDOW"`
	LogLevel  string `config:"HEALTHREGEN_LOG_LEVEL"`
	PrettyLog bool   `config:"HEALTHREGEN_PRETTY_LOG"`
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		TickInterval: 16 * time.Millisecond,
		LogLevel:     zerolog.InfoLevel.String(),
	}
}

// Load reads the environment over Default and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to read environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TickInterval < 0 {
		return eris.Errorf("HEALTHREGEN_TICK_INTERVAL must not be negative, got %s", c.TickInterval)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid HEALTHREGEN_LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}
