package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/alumnet/alumnet-backend/internal/common"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	KeyPrefix         string
	Message           string
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		Burst:             20,
		KeyPrefix:         "ratelimit:",
		Message:           "too many requests, please retry shortly",
	}
}

// rateLimitScript is an atomic sliding window over one minute
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

const (
	rateWindow = time.Minute

	// idle limiters are dropped after this, or after a full refill when that takes longer
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiters is the in-process fallback used without Redis
type localLimiters struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

func newLocalLimiters(cfg RateLimitConfig) *localLimiters {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	l := &localLimiters{
		clients: make(map[string]*limiterEntry),
		limit:   rate.Limit(float64(cfg.RequestsPerMinute) / rateWindow.Seconds()),
		burst:   burst,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
	}
	if cfg.RequestsPerMinute > 0 {
		if refill := time.Duration(burst) * rateWindow / time.Duration(cfg.RequestsPerMinute); refill > l.idleTTL {
			l.idleTTL = refill
		}
	}
	return l
}

func (l *localLimiters) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	e, ok := l.clients[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()
	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters not seen within idleTTL
func (l *localLimiters) sweep() {
	cutoff := l.now().Add(-l.idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.clients {
		if e.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

func (l *localLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// cleanupLoop sweeps on every tick until ctx is done
func (l *localLimiters) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-ctx.Done():
			return
		}
	}
}

// RateLimit limits requests per caller: the user ID when signed in, the client IP otherwise.
// Redis gives a limit shared across instances; without it a per-process token bucket is used.
// Redis errors fail open. ctx bounds the goroutine that evicts idle local buckets.
func RateLimit(ctx context.Context, redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	local := newLocalLimiters(cfg)
	if redisClient == nil && cfg.RequestsPerMinute > 0 {
		go local.cleanupLoop(ctx, limiterSweepInterval)
	}
	limit := strconv.Itoa(cfg.RequestsPerMinute)

	return func(c *gin.Context) {
		if cfg.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if userID := GetUserID(c); userID != "" {
			key = "user:" + userID
		}
		c.Header("X-RateLimit-Limit", limit)

		if redisClient == nil {
			if !local.allow(key) {
				tooManyRequests(c, cfg, 1)
				return
			}
			c.Next()
			return
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), redisClient, []string{cfg.KeyPrefix + key},
			cfg.RequestsPerMinute, rateWindow.Milliseconds(), now,
		).Int64Slice()
		if err != nil {
			logger.GetLogger().Warn().Err(err).Msg("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))
		if result[0] != 1 {
			retryAfter := (result[2] - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result[2]/1000, 10))
			tooManyRequests(c, cfg, retryAfter)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, cfg RateLimitConfig, retryAfter int64) {
	c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
	common.ErrorResponse(c, http.StatusTooManyRequests, cfg.Message, nil)
	c.Abort()
}
