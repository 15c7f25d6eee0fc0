package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDB(t *testing.T) {
	t.Setenv("DB_USER", "filmorate")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "filmorate")
}

func TestLoad_Defaults(t *testing.T) {
	setDB(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_AUTO_MIGRATE", "")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "filmorate@tcp(db:3306)/filmorate?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setDB(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Contains(t, cfg.DSN(), "filmorate:secret@tcp(db:3306)")
}

func TestLoad_MissingRequired(t *testing.T) {
	setDB(t)
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", " ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.NotContains(t, err.Error(), "DB_USER")
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "ip_user_route")

	rl := LoadRateLimitConfig()
	assert.True(t, rl.Enabled)
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.Equal(t, "ip_route", rl.KeyStrategy)
}

func TestLoadRateLimitConfig_Aliases(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "250ms")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 5, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 250*time.Millisecond, rl.RefillInterval)
}

func TestLoadQueueConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")
	t.Setenv("QUEUE_ENABLED", "yes")

	q := LoadQueueConfig()
	assert.True(t, q.Enabled)
	assert.False(t, q.ConsumerEnabled)
	assert.Equal(t, "amqp://u:p@mq:5672/", q.URL)
	assert.Equal(t, DefaultQueueName, q.Queue)
	assert.Equal(t, "logs/activity.log", q.LogPath)
}

func TestLoadRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "1")

	opts := LoadRedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)

	t.Setenv("REDIS_HOST", "r")
	t.Setenv("REDIS_PORT", "1")
	assert.Equal(t, "r:1", LoadRedisOptions().Addr)
}
