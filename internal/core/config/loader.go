package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
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
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Node.RequestTimeout == 0 {
		cfg.Node.RequestTimeout = 10 * time.Second
	}
	if cfg.Node.ConfirmTimeout == 0 {
		cfg.Node.ConfirmTimeout = 2 * time.Minute
	}
	if cfg.Node.ConfirmPollInterval == 0 {
		cfg.Node.ConfirmPollInterval = 2 * time.Second
	}
	if cfg.Prices.PollInterval == 0 {
		cfg.Prices.PollInterval = 15 * time.Second
	}
	if cfg.Prices.IndexBaseURL == "" {
		cfg.Prices.IndexBaseURL = "https://api.coingecko.com/api/v3"
	}
}
