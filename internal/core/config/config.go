package config

import (
	"github.com/ferranmt/saludbot/internal/core/session"
	"github.com/ferranmt/saludbot/internal/infra/storage/snapshot"
	"github.com/ferranmt/saludbot/internal/validation"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig      `yaml:"server"`
	Bot        BotConfig         `yaml:"bot"`
	Session    session.Config    `yaml:"session"`
	Storage    snapshot.Config   `yaml:"storage"`
	Validation validation.Config `yaml:"validation"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// BotConfig holds chat transport and resilience settings.
type BotConfig struct {
	Token              string `yaml:"token"`
	MaxRetries         int    `yaml:"max_retries"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
