package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/guessit-backend/internal/config"
	"github.com/scythe504/guessit-backend/internal/database"
	"github.com/scythe504/guessit-backend/internal/game"
	"github.com/scythe504/guessit-backend/internal/images"
	"github.com/scythe504/guessit-backend/internal/logger"
	"github.com/scythe504/guessit-backend/internal/metrics"
	"github.com/scythe504/guessit-backend/internal/server"
	"github.com/scythe504/guessit-backend/internal/words"
)

func gracefulShutdown(apiServer *http.Server, stopRegistry context.CancelFunc, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	stopRegistry()

	log.Info().Msg("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// loadWords picks the word pool: the database when configured, seeded from
// WORDS_FILE if one is given; otherwise the file or the built-in list.
func loadWords(ctx context.Context, cfg config.Config, db database.Service) ([]string, error) {
	var fromFile []string
	if cfg.WordsFile != "" {
		var err error
		if fromFile, err = words.ReadCSVFile(cfg.WordsFile); err != nil {
			return nil, err
		}
	}

	if db == nil {
		if fromFile != nil {
			return fromFile, nil
		}
		return words.DefaultPool(), nil
	}

	if fromFile != nil {
		added, err := db.AddWords(ctx, fromFile)
		if err != nil {
			return nil, err
		}
		log.Info().Int("added", added).Str("file", cfg.WordsFile).Msg("seeded words")
	}
	return db.Words(ctx)
}

func imageProvider(cfg config.Config) (game.ImageProvider, func()) {
	if cfg.SerpAPIKey == "" {
		log.Warn().Msg("SERPAPI_KEY not set, rounds start without images")
		return images.None{}, func() {}
	}
	provider := images.NewSerpAPI(cfg.SerpAPIKey, nil)
	if cfg.RedisURL == "" {
		return provider, func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, image cache will fall through")
	}
	return images.NewCache(rdb, provider, cfg.ImageCacheTTL), func() { _ = rdb.Close() }
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogPretty)
	ctx := context.Background()

	var db database.Service
	if cfg.DatabaseURL != "" {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		var err error
		if db, err = database.New(ctx, cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
	}

	pool, err := loadWords(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load words")
	}
	provider, err := words.NewProvider(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build word provider")
	}

	imgs, closeImages := imageProvider(cfg)
	defer closeImages()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry := game.NewRegistry(game.Deps{
		Words:    provider,
		Images:   imgs,
		Recorder: metrics.New(promRegistry),
	})
	registryCtx, stopRegistry := context.WithCancel(ctx)
	go registry.Run(registryCtx)

	apiServer := server.NewServer(cfg, registry, db, promRegistry)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, stopRegistry, done)

	log.Info().Str("addr", apiServer.Addr).Int("words", provider.Size()).Msg("server listening")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("graceful shutdown complete")
}
