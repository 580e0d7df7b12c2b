package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port             string
	DatabaseURL      string
	RedisURL         string
	SerpAPIKey       string
	ImageCacheTTL    time.Duration
	CORSOrigin       string
	LogLevel         string
	LogPretty        bool
	RoomGraceSeconds int
	WordsFile        string
}

// Load reads a .env file when one is present and then the environment.
// Malformed values fall back to their defaults.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("[config.Load] loaded .env")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		SerpAPIKey:       os.Getenv("SERPAPI_KEY"),
		ImageCacheTTL:    getEnvDuration("IMAGE_CACHE_TTL", 24*time.Hour),
		CORSOrigin:       getEnv("CORS_ORIGIN", "*"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvBool("LOG_PRETTY", false),
		RoomGraceSeconds: getEnvInt("ROOM_GRACE_SECONDS", 30),
		WordsFile:        os.Getenv("WORDS_FILE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
