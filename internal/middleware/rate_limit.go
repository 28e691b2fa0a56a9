package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	apierrors "github.com/greenminds/greenminds-api/internal/errors"
	"github.com/sirupsen/logrus"
)

// RateLimitStore counts requests per client within a fixed window.
type RateLimitStore interface {
	// Incr increments the counter for key and returns the new count and
	// the moment the window resets.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryRateLimitStore keeps counters in process memory. Expired
// windows are pruned lazily on access.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

// NewMemoryRateLimitStore creates an in-memory store.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]*memoryWindow),
	}
}

func (s *MemoryRateLimitStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++

	if len(s.windows) > 1024 {
		for k, v := range s.windows {
			if now.After(v.resetAt) {
				delete(s.windows, k)
			}
		}
	}

	return w.count, w.resetAt, nil
}

// RedisRateLimitStore backs the counters with Redis so limits hold
// across instances.
type RedisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore creates a Redis-backed store.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

func (s *RedisRateLimitStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, "ratelimit:"+key)
	pipe.Expire(ctx, "ratelimit:"+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	return incr.Val(), time.Now().Add(window), nil
}

// RateLimit rejects clients that exceed limit requests per window,
// keyed by client IP. Store errors are logged and the request is let
// through rather than failing closed.
func RateLimit(store RateLimitStore, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, resetAt, err := store.Incr(c.Request.Context(), c.ClientIP(), window)
		if err != nil {
			logrus.WithError(err).Warn("rate limit store unavailable, allowing request")
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(time.Until(resetAt).Seconds())+1))
			apierrors.TooManyRequests(c, "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
