package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DATABASE", "continuum")
	t.Setenv("DB_USER", "continuum")
	t.Setenv("AUTHZ_URL", "http://localhost:8080")
	t.Setenv("AUTHZ_CLIENT_ID", "client-id")
	t.Setenv("OPENAI_KEY", "sk-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBType)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5, cfg.DBConnectionLimit)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 256, cfg.QueueCapacity)
	assert.Equal(t, 3, cfg.WorkerMaxRetries)
	// Userinfo endpoint derives from the provider URL when unset.
	assert.Equal(t, "http://localhost:8080/userinfo", cfg.AuthzUserInfoURL)
}

func TestLoadRequiresDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_DATABASE", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresOpenAIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestSqliteDoesNotRequireUser(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_USER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBType)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8088")
	t.Setenv("ENRICHMENT_WORKERS", "2")
	t.Setenv("ENRICHMENT_WORKERS_BAD", "nope")
	t.Setenv("AUTHZ_USERINFO_URL", "http://idp.internal/userinfo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8088", cfg.Port)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, "http://idp.internal/userinfo", cfg.AuthzUserInfoURL)
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not a number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
	assert.Equal(t, 9, getEnvAsInt("SOME_MISSING_INT", 9))
}
