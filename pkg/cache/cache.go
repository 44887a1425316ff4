package cache

import (
	"context"
	"crypto/sha1" //nolint:gosec // cache key digest only
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLDirectory = 1 * time.Minute  // directory pages
	TTLStats     = 30 * time.Second // dashboard counters
	TTLDefault   = 5 * time.Minute
)

// Key prefixes
const (
	PrefixSession   = "session:"
	PrefixDirectory = "directory:"
	PrefixStats     = "stats:"
)

// ErrUnavailable is returned by reads when no Redis client is configured
var ErrUnavailable = errors.New("redis not available")

// Service Redis cache service
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Refresh sessions, keyed by refresh token id
	SetSession(ctx context.Context, sessionID string, data interface{}, ttl time.Duration) error
	// DeleteSession reports whether this call removed the session; of two
	// concurrent calls for one id only one sees true.
	DeleteSession(ctx context.Context, sessionID string) (bool, error)

	// Directory pages
	GetDirectory(ctx context.Context, query interface{}, dest interface{}) error
	SetDirectory(ctx context.Context, query interface{}, data interface{}) error
	InvalidateDirectory(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service; a nil client yields a no-op cache
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping Redis connection test
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return ErrUnavailable
	}
	return c.client.Ping(ctx).Err()
}

// Get loads a JSON value into dest
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores value as JSON
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, ErrUnavailable
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// Sessions
// ========================================

func (c *redisCache) sessionKey(sessionID string) string {
	return PrefixSession + sessionID
}

func (c *redisCache) SetSession(ctx context.Context, sessionID string, data interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.Set(ctx, c.sessionKey(sessionID), data, ttl)
}

func (c *redisCache) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	if c.client == nil {
		return false, ErrUnavailable
	}
	n, err := c.client.Del(ctx, c.sessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ========================================
// Directory
// ========================================

// DirectoryKey derives a stable key from any JSON-encodable query
func DirectoryKey(query interface{}) (string, error) {
	raw, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw) //nolint:gosec
	return PrefixDirectory + hex.EncodeToString(sum[:]), nil
}

func (c *redisCache) GetDirectory(ctx context.Context, query interface{}, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}
	key, err := DirectoryKey(query)
	if err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *redisCache) SetDirectory(ctx context.Context, query interface{}, data interface{}) error {
	if c.client == nil {
		return nil
	}
	key, err := DirectoryKey(query)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, TTLDirectory)
}

func (c *redisCache) InvalidateDirectory(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixDirectory+"*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
