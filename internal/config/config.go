// Package config defines the application configuration tree.
package config

import (
	"github.com/zimstream/stream-ops-service/internal/logger"
)

// Server holds HTTP listener settings.
type Server struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// Store holds connection settings for the hosted document database.
// The API key stays out of config files in prod; it is injected through the
// APP_STORE_API_KEY environment variable.
type Store struct {
	Endpoint   string `mapstructure:"endpoint" validate:"required,url"`
	ProjectID  string `mapstructure:"project_id" validate:"required"`
	DatabaseID string `mapstructure:"database_id" validate:"required"`
	APIKey     string `mapstructure:"api_key"`
	TimeoutSec int    `mapstructure:"timeout"` // per-request, seconds
}

// Refresh tunes the standings auto-refresh loop.
type Refresh struct {
	IntervalSec int `mapstructure:"interval"` // ticker period, seconds
	PollSec     int `mapstructure:"poll"`     // result-count poll period, seconds
}

type Config struct {
	Server  Server        `mapstructure:"server"`
	Store   Store         `mapstructure:"store"`
	Refresh Refresh       `mapstructure:"refresh"`
	Logger  logger.Config `mapstructure:"logger"`
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Store.DatabaseID == "" {
		c.Store.DatabaseID = "main"
	}
	if c.Store.TimeoutSec == 0 {
		c.Store.TimeoutSec = 10
	}
	if c.Refresh.IntervalSec == 0 {
		c.Refresh.IntervalSec = 30
	}
	if c.Refresh.PollSec == 0 {
		c.Refresh.PollSec = 5
	}
}
