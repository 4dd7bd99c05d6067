package adapter

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the seam over the shared Redis instance backing the
// distributed rate limiter that throttles metadata refresh and resync calls
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisClient=MockRedisClient
type RedisClient interface {
	// Ping checks if Redis is reachable
	Ping(ctx context.Context) *redis.StatusCmd

	// NewRateLimiter creates a distributed rate limiter on this connection
	NewRateLimiter() RedisRateLimiter

	// Close closes the Redis connection
	Close() error
}

// RealRedisClient wraps the actual Redis client
type RealRedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to the Redis instance shared by the API and
// sync-worker processes
func NewRedisClient(addr, password string, db int) RedisClient {
	return &RealRedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks if Redis is reachable
func (r *RealRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// NewRateLimiter creates a distributed rate limiter on this connection
func (r *RealRedisClient) NewRateLimiter() RedisRateLimiter {
	return NewRateLimiter(redis_rate.NewLimiter(r.client))
}

// Close closes the Redis connection
func (r *RealRedisClient) Close() error {
	return r.client.Close()
}

// RedisRateLimiter exposes the GCRA limiter so callers across processes
// share one token budget per key
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisRateLimiter=MockRedisRateLimiter
type RedisRateLimiter interface {
	// Allow reports whether the request under key fits the limit and,
	// when it does not, how long to wait before retrying
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RealRateLimiter wraps the redis_rate.Limiter
type RealRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRateLimiter creates a rate limiter from a redis_rate.Limiter
func NewRateLimiter(limiter *redis_rate.Limiter) RedisRateLimiter {
	return &RealRateLimiter{
		limiter: limiter,
	}
}

// Allow reports whether the request under key fits the limit
func (r *RealRateLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	return r.limiter.Allow(ctx, key, limit)
}
