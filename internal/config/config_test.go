package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{"DB_DSN": "postgres://localhost/tutoring"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.LogLevel)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestDSNRequiredForPostgres(t *testing.T) {
	_, err := FromEnv(lookupFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")

	cfg, err := FromEnv(lookupFrom(map[string]string{"STORE": "memory"}))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestInvalidValues(t *testing.T) {
	base := map[string]string{"STORE": "memory"}

	for key, value := range map[string]string{
		"AUTO_MIGRATE":        "sometimes",
		"QUERY_TIMEOUT":       "soon",
		"OTEL_ENABLED":        "maybe",
		"OTEL_SAMPLING_RATIO": "2",
		"STORE":               "redis",
	} {
		env := map[string]string{}
		for k, v := range base {
			env[k] = v
		}
		env[key] = value

		_, err := FromEnv(lookupFrom(env))
		assert.Error(t, err, key)
	}
}
