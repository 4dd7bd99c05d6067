// Package ratelimit bounds the request rate against upstream gateways
// (IPFS, Arweave, plain HTTP metadata hosts). Limits are coordinated
// across replicas through Redis, with a local token bucket fallback when
// Redis is unreachable.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/config"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
)

// redisRetryCooldown is how long the proxy stays on the local fallback
// before probing Redis again after an error
const redisRetryCooldown = 10 * time.Second

// RequestFunc is a function that performs the actual upstream request
type RequestFunc func(ctx context.Context) (interface{}, error)

// requestResult wraps the result and error of a request
type requestResult struct {
	value interface{}
	err   error
}

// Proxy defines the interface for the rate-limiting proxy
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request submits a rate-limited request for execution
	Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error)

	// Configured reports whether a provider has a rate limit configured
	Configured(providerName string) bool

	// Close gracefully shuts down the proxy
	Close() error
}

// proxy is the concrete implementation of the rate-limiting proxy
type proxy struct {
	config    config.RateLimiterConfig
	pool      pond.ResultPool[*requestResult]
	limiters  map[string]*providerLimiter
	redis     adapter.RedisClient
	clock     adapter.Clock
	closed    atomic.Bool
	closeOnce sync.Once

	// redisDownAt is the unix-nano timestamp of the last Redis failure,
	// zero while Redis is believed healthy
	redisDownAt atomic.Int64
}

// providerLimiter holds the rate limiting state for a single provider
type providerLimiter struct {
	name               string
	config             config.RateLimitConfig
	distributedLimiter adapter.RedisRateLimiter
	localLimiter       *rate.Limiter
	preFilterLimiter   *rate.Limiter
}

// NewProxy creates a new rate-limiting proxy
func NewProxy(cfg config.RateLimiterConfig, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Probe Redis once so a dead address fails fast when fallback is off
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := &proxy{
		config: cfg,
		redis:  rc,
		clock:  clock,
	}
	if err := rc.Ping(ctx).Err(); err != nil {
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, starting on local fallback", zap.Error(err))
		p.redisDownAt.Store(clock.Now().UnixNano())
	}

	distributedLimiter := rc.NewRateLimiter()

	limiters := make(map[string]*providerLimiter)
	for name, providerConfig := range cfg.Providers {
		// The local fallback runs at a fraction of the shared rate so a
		// fleet of replicas on fallback does not exceed the global limit
		localRate := max(float64(providerConfig.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)
		localLimiter := rate.NewLimiter(rate.Limit(localRate), providerConfig.Burst)

		// Pre-filter at the full provider rate to keep Redis round trips
		// off the hot path once the limit is saturated
		preFilterLimiter := rate.NewLimiter(rate.Limit(providerConfig.RequestsPerSecond), providerConfig.Burst)

		limiters[name] = &providerLimiter{
			name:               name,
			config:             providerConfig,
			distributedLimiter: distributedLimiter,
			localLimiter:       localLimiter,
			preFilterLimiter:   preFilterLimiter,
		}
	}
	p.limiters = limiters

	p.pool = pond.NewResultPool[*requestResult](
		cfg.MaxWorkers,
		pond.WithQueueSize(cfg.MaxQueueSize),
	)

	logger.Info("Rate limit proxy initialized",
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.Int("max_queue_size", cfg.MaxQueueSize),
		zap.Int("providers", len(cfg.Providers)),
		zap.Bool("local_fallback", cfg.EnableLocalFallback),
	)

	return p, nil
}

// Request submits a rate-limited request and returns the result with type
// safety. A nil proxy executes the function directly.
func Request[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, providerName, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Request submits a rate-limited request for execution. It blocks until a
// token is acquired and the request completes, the context is canceled, or
// the provider's maximum queue time is exceeded.
func (p *proxy) Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("proxy is closed")
	}

	limiter, ok := p.limiters[providerName]
	if !ok {
		return nil, fmt.Errorf("provider '%s' not configured", providerName)
	}

	queueCtx, cancel := context.WithTimeout(ctx, limiter.config.MaxQueueTime)
	defer cancel()

	resultTask := p.pool.Submit(func() *requestResult {
		value, err := p.executeWithRateLimit(queueCtx, limiter, fn)
		return &requestResult{value: value, err: err}
	})

	result, err := resultTask.Wait()
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		return nil, result.err
	}
	return result.value, nil
}

// Configured reports whether a provider has a rate limit configured
func (p *proxy) Configured(providerName string) bool {
	_, ok := p.limiters[providerName]
	return ok
}

func (p *proxy) executeWithRateLimit(ctx context.Context, limiter *providerLimiter, fn RequestFunc) (interface{}, error) {
	if err := p.acquireToken(ctx, limiter); err != nil {
		return nil, err
	}

	// No timeout wrapper here, the HTTP adapter owns request deadlines
	return fn(ctx)
}

// acquireToken blocks until a rate limit token is available
func (p *proxy) acquireToken(ctx context.Context, limiter *providerLimiter) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.redisUsable() {
			allowed, retryAfter, err := p.tryDistributedLimit(ctx, limiter)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				// Redis error: back off to the local limiter until the
				// cooldown elapses
				p.redisDownAt.Store(p.clock.Now().UnixNano())

				if !p.config.EnableLocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}

				logger.Warn("Redis rate limiter error, falling back to local",
					zap.String("provider", limiter.name),
					zap.Error(err),
				)
			} else if allowed {
				p.redisDownAt.Store(0)
				return nil
			} else if retryAfter > 0 {
				// Rate limited: sleep with jitter (50-150% of retryAfter)
				// so queued callers do not retry in lockstep
				jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-p.clock.After(jitter):
					continue
				}
			}
		}

		if !p.redisUsable() && p.config.EnableLocalFallback {
			if err := limiter.localLimiter.Wait(ctx); err != nil {
				return err
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(100 * time.Millisecond):
		}
	}
}

// redisUsable reports whether the distributed limiter should be tried:
// either Redis has not failed recently, or the retry cooldown has elapsed
func (p *proxy) redisUsable() bool {
	downAt := p.redisDownAt.Load()
	if downAt == 0 {
		return true
	}
	return p.clock.Since(time.Unix(0, downAt)) >= redisRetryCooldown
}

// tryDistributedLimit attempts to acquire a token from the shared limiter.
// Returns (allowed, retryAfter, error).
func (p *proxy) tryDistributedLimit(ctx context.Context, limiter *providerLimiter) (bool, time.Duration, error) {
	if limiter.distributedLimiter == nil {
		return false, 0, fmt.Errorf("distributed limiter not available")
	}

	if err := limiter.preFilterLimiter.Wait(ctx); err != nil {
		// Context error during pre-filter, not a Redis error
		return false, 0, err
	}

	redisKey := fmt.Sprintf("%s%s", p.config.RedisKeyPrefix, limiter.name)

	res, err := limiter.distributedLimiter.Allow(ctx, redisKey, redis_rate.PerSecond(limiter.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit token unavailable, waiting",
			zap.String("provider", limiter.name),
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining),
		)
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}

// Close gracefully shuts down the proxy, waiting for in-flight requests
func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)

		logger.Info("Shutting down rate limit proxy")

		tasks := p.pool.Stop()
		if errTasks := tasks.Wait(); errTasks != nil {
			logger.Warn("Error waiting for pool tasks to complete", zap.Error(errTasks))
			err = errTasks
		}

		if closeErr := p.redis.Close(); closeErr != nil {
			logger.Warn("Error closing Redis connection", zap.Error(closeErr))
			err = closeErr
		}

		logger.Info("Rate limit proxy shutdown complete")
	})
	return err
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *config.RateLimiterConfig) error {
	if cfg.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required")
	}

	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}

	for name, provider := range cfg.Providers {
		if provider.RequestsPerSecond <= 0 {
			return fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}

		if provider.Burst <= 0 {
			provider.Burst = provider.RequestsPerSecond
		}

		if provider.MaxQueueTime <= 0 {
			provider.MaxQueueTime = 5 * time.Minute
		}

		cfg.Providers[name] = provider
	}

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "mz:indexer:limiter:"
	}

	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU() * 10
	}

	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10000
	}

	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}

	return nil
}
