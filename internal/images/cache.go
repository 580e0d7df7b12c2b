package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultCacheTTL = 24 * time.Hour

// Lookup is anything that resolves a keyword to image URLs.
type Lookup interface {
	ImageURLs(ctx context.Context, keyword string) ([]string, error)
}

// Cache keeps lookup results in Redis so repeated words do not spend
// provider quota. Redis failures fall through to the wrapped lookup.
type Cache struct {
	client *redis.Client
	next   Lookup
	ttl    time.Duration
}

func NewCache(client *redis.Client, next Lookup, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{client: client, next: next, ttl: ttl}
}

func (c *Cache) key(keyword string) string {
	return fmt.Sprintf("images:%s", keyword)
}

func (c *Cache) ImageURLs(ctx context.Context, keyword string) ([]string, error) {
	urls, err := c.get(ctx, keyword)
	switch {
	case err == nil:
		return urls, nil
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("keyword", keyword).Msg("[Cache.ImageURLs] cache read failed")
	}

	urls, err = c.next.ImageURLs(ctx, keyword)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached so a later lookup can still succeed.
	if len(urls) > 0 {
		if err := c.set(ctx, keyword, urls); err != nil {
			log.Warn().Err(err).Str("keyword", keyword).Msg("[Cache.ImageURLs] cache write failed")
		}
	}
	return urls, nil
}

func (c *Cache) get(ctx context.Context, keyword string) ([]string, error) {
	data, err := c.client.Get(ctx, c.key(keyword)).Bytes()
	if err != nil {
		return nil, err
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (c *Cache) set(ctx context.Context, keyword string, urls []string) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(keyword), data, c.ttl).Err()
}
