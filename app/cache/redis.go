package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "sieve"
	generationKey = keyPrefix + ":gen"
)

var _ Cache = (*Redis)(nil)

// Redis keys every entry under the current generation counter. Bumping the
// counter makes all older entries unreachable; they expire through their TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr, "ttl", ttl)

	return NewRedisWithClient(client, ttl), nil
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := r.entryKey(ctx, key)
	if err != nil {
		return nil, false, err
	}

	data, err := r.client.Get(ctx, entry).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", entry, err)
	}

	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	entry, err := r.entryKey(ctx, key)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, entry, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", entry, err)
	}

	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	gen, err := r.client.Incr(ctx, generationKey).Result()
	if err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}

	slog.Debug("Cache invalidated", "generation", gen)
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) entryKey(ctx context.Context, key string) (string, error) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read cache generation: %w", err)
	}
	return EntryKey(gen, key), nil
}

// EntryKey builds the Redis key of a cached response for a generation.
func EntryKey(generation int64, key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:%d:%x", keyPrefix, generation, hash[:8])
}
