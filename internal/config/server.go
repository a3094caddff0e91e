package config

import (
	"fmt"

	"github.com/themizzi/e2eflows/internal/models"
)

// ServerConfig holds configuration for the backing web server
type ServerConfig struct {
	Port        string
	StaticDir   string
	StubAPI     bool
	StubBalance int64
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	cfg := ServerConfig{
		Port:        getenv("PORT"),
		StaticDir:   getenv("STATIC_DIR"),
		StubBalance: 100000,
	}

	if cfg.Port == "" {
		cfg.Port = "3000" // Default to port 3000
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "public"
	}

	if balance := getenv("STUB_BALANCE"); balance != "" {
		cents, err := models.ParseAmount(balance)
		if err != nil {
			return cfg, fmt.Errorf("STUB_BALANCE is invalid: %w", err)
		}
		cfg.StubBalance = cents
	}

	return cfg, nil
}
