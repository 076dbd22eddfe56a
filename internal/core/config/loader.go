package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file. A .env file, if present,
// is loaded first so ${VAR} references in the YAML resolve.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Bot.MaxRetries == 0 {
		cfg.Bot.MaxRetries = 3
	}
	if cfg.Bot.RateLimitPerMinute == 0 {
		cfg.Bot.RateLimitPerMinute = 10
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.MaxBackups == 0 {
		cfg.Storage.MaxBackups = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
