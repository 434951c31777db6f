// Package config provides environment-driven configuration for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the top-level service configuration.
type ServerConfig struct {
	Port            int
	DatabaseURL     string
	MemoryStore     bool // use the in-memory record store instead of Postgres
	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderTimeout time.Duration
}

// NewServerConfig creates a server configuration from environment variables.
// It reads PORT (default: 8080), DATABASE_URL, MEMORY_STORE,
// PROVIDER_BASE_URL (required), PROVIDER_API_KEY, and
// PROVIDER_TIMEOUT_SECONDS (default: 30).
func NewServerConfig() (*ServerConfig, error) {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	memoryStore := false
	if v := os.Getenv("MEMORY_STORE"); v != "" {
		memoryStore, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MEMORY_STORE: %v", err)
		}
	}

	timeoutStr := os.Getenv("PROVIDER_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		timeoutStr = "30"
	}
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT_SECONDS: %v", err)
	}

	config := &ServerConfig{
		Port:            port,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MemoryStore:     memoryStore,
		ProviderBaseURL: os.Getenv("PROVIDER_BASE_URL"),
		ProviderAPIKey:  os.Getenv("PROVIDER_API_KEY"),
		ProviderTimeout: time.Duration(timeoutSecs) * time.Second,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.ProviderBaseURL == "" {
		return fmt.Errorf("PROVIDER_BASE_URL is required but not set")
	}
	if !c.MemoryStore && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required unless MEMORY_STORE is set")
	}
	if c.ProviderTimeout < time.Second {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be at least 1, got: %s", c.ProviderTimeout)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
