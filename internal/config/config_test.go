package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "payverify.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentDocs)
	assert.Equal(t, "prebuilt-payStub.us", cfg.DocIntel.PaystubModel)
	assert.Equal(t, "prebuilt-read", cfg.DocIntel.ReadModel)
	assert.Equal(t, 2, cfg.DocIntel.PollIntervalSecs)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAYVERIFY_STORE_DRIVER", "postgres")
	t.Setenv("PAYVERIFY_LOG_LEVEL", "debug")
	t.Setenv("PAYVERIFY_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))

	err := InitLogger(LogConfig{Level: "nonsense", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
