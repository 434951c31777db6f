package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setServerEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pathfinder")
	t.Setenv("MEMORY_STORE", "")
	t.Setenv("PROVIDER_BASE_URL", "https://content.example.com/v1")
	t.Setenv("PROVIDER_API_KEY", "")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "")
}

func TestNewServerConfig_Defaults(t *testing.T) {
	setServerEnv(t)

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.MemoryStore)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
}

func TestNewServerConfig_ExplicitValues(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("PROVIDER_API_KEY", "secret")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "5")

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "secret", cfg.ProviderAPIKey)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
}

func TestNewServerConfig_MissingProviderURL(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PROVIDER_BASE_URL", "")

	cfg, err := NewServerConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "PROVIDER_BASE_URL")
}

func TestNewServerConfig_MemoryStoreSkipsDatabaseURL(t *testing.T) {
	setServerEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MEMORY_STORE", "true")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.True(t, cfg.MemoryStore)
}

func TestNewServerConfig_MissingDatabaseURL(t *testing.T) {
	setServerEnv(t)
	t.Setenv("DATABASE_URL", "")

	cfg, err := NewServerConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewServerConfig_InvalidPort(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PORT", "not-a-number")

	_, err := NewServerConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "70000")
	_, err = NewServerConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PORT out of range")
}

func TestNewServerConfig_InvalidMemoryStore(t *testing.T) {
	setServerEnv(t)
	t.Setenv("MEMORY_STORE", "maybe")

	_, err := NewServerConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MEMORY_STORE")
}

func TestNewServerConfig_TimeoutTooSmall(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "0")

	_, err := NewServerConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_TIMEOUT_SECONDS")
}
