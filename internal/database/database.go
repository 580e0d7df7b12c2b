package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Service is the persistent word store.
type Service interface {
	// Health returns a map of health status information.
	Health(ctx context.Context) map[string]string

	// Words returns the whole word pool.
	Words(ctx context.Context) ([]string, error)

	// AddWords inserts words that are not stored yet and reports how many
	// were new.
	AddWords(ctx context.Context, words []string) (int, error)

	Close()
}

type service struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (Service, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &service{pool: pool}, nil
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("[Health] database is down")
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	poolStats := s.pool.Stat()
	stats["total_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_connections"] = strconv.Itoa(int(poolStats.MaxConns()))

	if poolStats.AcquiredConns() >= poolStats.MaxConns() {
		stats["message"] = "The database is experiencing heavy load."
	}
	return stats
}

func (s *service) Words(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT word FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan words: %w", err)
	}
	return words, nil
}

func (s *service) AddWords(ctx context.Context, words []string) (int, error) {
	batch := &pgx.Batch{}
	for _, w := range words {
		batch.Queue("INSERT INTO words (word) VALUES ($1) ON CONFLICT (word) DO NOTHING", w)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	added := 0
	for range words {
		tag, err := results.Exec()
		if err != nil {
			return added, fmt.Errorf("insert word: %w", err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

func (s *service) Close() {
	log.Info().Msg("[database.Close] closing pool")
	s.pool.Close()
}
