package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := &Config{}
	_, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stream-ops-service", cfg.ServiceName)
}

func TestNew_DevDefaults(t *testing.T) {
	cfg := &Config{Env: "dev"}
	_, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.True(t, cfg.WithCaller)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_InvalidEnv(t *testing.T) {
	_, err := New(&Config{Env: "production"})
	assert.Error(t, err)
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	_, err := New(&Config{Env: "prod", Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	_, err = New(&Config{Env: "prod", Level: "info"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
