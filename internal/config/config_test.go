package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var keys = []string{
	"PORT", "DATABASE_URL", "REDIS_URL", "SERPAPI_KEY", "IMAGE_CACHE_TTL",
	"CORS_ORIGIN", "LOG_LEVEL", "LOG_PRETTY", "ROOM_GRACE_SECONDS", "WORDS_FILE",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.SerpAPIKey)
	assert.Equal(t, 24*time.Hour, cfg.ImageCacheTTL)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, 30, cfg.RoomGraceSeconds)
	assert.Empty(t, cfg.WordsFile)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/guessit")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SERPAPI_KEY", "k")
	t.Setenv("IMAGE_CACHE_TTL", "1h")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("ROOM_GRACE_SECONDS", "10")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres://localhost/guessit", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "k", cfg.SerpAPIKey)
	assert.Equal(t, time.Hour, cfg.ImageCacheTTL)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 10, cfg.RoomGraceSeconds)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROOM_GRACE_SECONDS", "abc")
	t.Setenv("IMAGE_CACHE_TTL", "-5m")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := Load()

	assert.Equal(t, 30, cfg.RoomGraceSeconds)
	assert.Equal(t, 24*time.Hour, cfg.ImageCacheTTL)
	assert.False(t, cfg.LogPretty)
}
