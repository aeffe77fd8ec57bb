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
	if cfg.Blob.Dir == "" {
		cfg.Blob.Dir = "data/uploads"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Admin.TokenTTL == 0 {
		cfg.Admin.TokenTTL = 12 * time.Hour
	}
	if cfg.Submit.EndpointURL == "" {
		cfg.Submit.EndpointURL = fmt.Sprintf("http://localhost:%d/api/v1/applications", cfg.Server.Port)
	}
	if cfg.Submit.MaxRetries == 0 {
		cfg.Submit.MaxRetries = 3
	}
	if cfg.Submit.BaseDelay == 0 {
		cfg.Submit.BaseDelay = 1 * time.Second
	}
	if cfg.Submit.MaxDelay == 0 {
		cfg.Submit.MaxDelay = 5 * time.Second
	}
	if cfg.Submit.Timeout == 0 {
		cfg.Submit.Timeout = 30 * time.Second
	}
}
