package config_test

import (
	"testing"
	"time"

	"github.com/plus3/healthregen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 16*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Window)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HEALTHREGEN_TICK_INTERVAL", "250ms")
	t.Setenv("HEALTHREGEN_MAX_TICKS", "12")
	t.Setenv("HEALTHREGEN_WINDOW", "true")
	t.Setenv("HEALTHREGEN_LOG_LEVEL", "debug")
	t.Setenv("HEALTHREGEN_PRETTY_LOG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.Config{
		TickInterval: 250 * time.Millisecond,
		MaxTicks:     12,
		Window:       true,
		LogLevel:     "debug",
		PrettyLog:    true,
	}, cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"negative interval": {"HEALTHREGEN_TICK_INTERVAL": "-1s"},
		"unknown level":     {"HEALTHREGEN_LOG_LEVEL": "loud"},
		"malformed ticks":   {"HEALTHREGEN_MAX_TICKS": "many"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
