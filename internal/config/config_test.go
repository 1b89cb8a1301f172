package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GibaTrindade/bot-seplag/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_EVOLUTION_URL", "http://relay:8080")
	t.Setenv("BOT_EVOLUTION_APIKEY", "key")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL.Std())
	assert.Equal(t, "BOT-SEPLAG", cfg.EvolutionInstance)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
backend_url: http://pfc.internal/
evolution_url: http://relay:8080
evolution_api_key: file-key
session_ttl: 2m
session_store: redis
redis_addr: redis.internal:6379
`), 0o644))

	t.Setenv("BOT_EVOLUTION_APIKEY", "env-key")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://pfc.internal/", cfg.BackendURL)
	assert.Equal(t, "env-key", cfg.EvolutionAPIKey, "env must win over the file")
	assert.Equal(t, 2*time.Minute, cfg.SessionTTL.Std())
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
}

func TestLoad_MissingRelaySettings(t *testing.T) {
	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("BOT_EVOLUTION_URL", "http://relay:8080")
	t.Setenv("BOT_EVOLUTION_APIKEY", "key")
	t.Setenv("BOT_SESSION_STORE", "mongodb")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "unknown session store")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
