package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Loads the shipped config.yml. The multi-word keys asserted here have
// no defaults, so they only come out non-zero when the file keys
// actually bind to the struct fields.
func TestLoadConfigBindsMultiwordKeys(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.Equal(t, 3, cfg.Redis.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Redis.RetryBackoff)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 2, cfg.Redis.MinIdleConns)

	assert.Equal(t, 30, cfg.Booking.SlotIntervalMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Booking.DirectoryCacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.Booking.SlotInterval())

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 50.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 100, cfg.RateLimit.Burst)

	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, 3, cfg.Outbox.RetryAttempts)
	assert.Equal(t, time.Second, cfg.Outbox.RetryDelay)
}
