package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPersister stores the entry list as one JSON document under a single
// Redis key, so a team can share a warm cache.
type RedisPersister struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// RedisConfig holds configuration for the Redis persister.
type RedisConfig struct {
	URL string // Redis connection URL (e.g., "redis://localhost:6379")
	Key string // Key for the cache document (default: "glotmark:cache")
	TTL int    // Document TTL in seconds (0 = no expiration)
}

// NewRedisPersister creates a Redis persister and verifies the connection.
func NewRedisPersister(cfg RedisConfig) (*RedisPersister, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisPersisterFromClient(client, cfg.Key, cfg.TTL), nil
}

// NewRedisPersisterFromClient creates a RedisPersister on an existing client.
func NewRedisPersisterFromClient(client *redis.Client, key string, ttlSeconds int) *RedisPersister {
	if key == "" {
		key = "glotmark:cache"
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}
	return &RedisPersister{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Load fetches the persisted entry list. A missing key is an empty cache.
func (p *RedisPersister) Load() ([]Entry, error) {
	ctx := context.Background()
	data, err := p.client.Get(ctx, p.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var export ExportFormat
	if err := json.Unmarshal([]byte(data), &export); err != nil {
		return nil, fmt.Errorf("decoding cache document: %w", err)
	}
	return export.Entries, nil
}

// Save writes the entry list under the configured key.
func (p *RedisPersister) Save(entries []Entry) error {
	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
	}

	data, err := json.Marshal(export)
	if err != nil {
		return fmt.Errorf("encoding cache document: %w", err)
	}

	ctx := context.Background()
	return p.client.Set(ctx, p.key, string(data), p.ttl).Err()
}

// Close closes the Redis connection.
func (p *RedisPersister) Close() error {
	return p.client.Close()
}

// Ping tests the Redis connection.
func (p *RedisPersister) Ping() error {
	return p.client.Ping(context.Background()).Err()
}

// Verify RedisPersister implements Persister
var _ Persister = (*RedisPersister)(nil)
