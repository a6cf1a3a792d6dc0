// Package cache remembers transcripts of audio the relay has already seen,
// keyed by the content hash of the staged file.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "relay:transcript:"

// TranscriptCache looks up and stores transcripts by fingerprint
type TranscriptCache interface {
	Get(ctx context.Context, fingerprint string) (string, bool, error)
	Set(ctx context.Context, fingerprint, transcript string) error
}

// kv is the subset of redis.Cmdable used here
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache implements TranscriptCache on redis
type RedisCache struct {
	client kv
	ttl    time.Duration
}

// Options configures the redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects and pings the server
func NewRedisCache(ctx context.Context, opts Options) (*RedisCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return &RedisCache{client: client, ttl: opts.TTL}, client, nil
}

// Get returns the cached transcript; a miss is not an error
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (string, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return val, true, nil
}

// Set stores the transcript for the configured TTL (0 keeps it forever)
func (c *RedisCache) Set(ctx context.Context, fingerprint, transcript string) error {
	if err := c.client.Set(ctx, keyPrefix+fingerprint, transcript, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Nop never hits; used when caching is disabled
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error         { return nil }
