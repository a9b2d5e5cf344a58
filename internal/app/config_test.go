package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.ExportRateLimit)
	assert.False(t, cfg.FilterByRange)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DASHBOARD_FILTER_BY_RANGE", "true")
	t.Setenv("LOG_FORMAT", "json")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.FilterByRange)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("LOG_FORMAT", "pretty")
	t.Setenv("EXPORT_RATE_LIMIT", "0")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestInTestModeFollowsEnv(t *testing.T) {
	t.Setenv(TestModeEnv, "true")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(TestModeEnv, "nope")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
