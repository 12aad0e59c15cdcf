package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/osintwatch/exposure/internal/config"
)

// RateLimiter enforces per-tier request budgets using a fixed one-minute
// window in Redis. Redis outages fail open: a scan API that stops serving
// because the limiter store blinked is worse than a minute of unmetered
// traffic.
type RateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// RateLimitResult is the outcome of one limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	Limit      int
	RetryAfter time.Duration
}

// NewRateLimiter creates a Redis-backed rate limiter.
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{client: client, cfg: cfg, logger: logger}
}

var incrWithExpiry = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// Check counts one request for a client at a tier and reports whether it is
// within budget.
func (rl *RateLimiter) Check(ctx context.Context, tier, clientID string) RateLimitResult {
	limit := rl.tierLimit(tier)
	if limit <= 0 {
		return RateLimitResult{Allowed: true}
	}

	key := fmt.Sprintf("exposure:ratelimit:%s:%s:minute", tier, clientID)
	count, err := incrWithExpiry.Run(ctx, rl.client, []string{key}, 60000).Int()
	if err != nil {
		rl.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
		return RateLimitResult{Allowed: true, Limit: limit, Remaining: limit}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	result := RateLimitResult{
		Allowed:   count <= limit,
		Remaining: remaining,
		Limit:     limit,
	}

	if !result.Allowed {
		if ttl, err := rl.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			result.RetryAfter = ttl
		} else {
			result.RetryAfter = time.Minute
		}
	}

	return result
}

func (rl *RateLimiter) tierLimit(tier string) int {
	if limit, ok := rl.cfg.Tiers[tier]; ok {
		return limit.RequestsPerMinute
	}
	if limit, ok := rl.cfg.Tiers["free"]; ok {
		return limit.RequestsPerMinute
	}
	return 0
}

// Middleware returns an HTTP middleware enforcing the tier budget. The
// client is identified by remote address, which RealIP upstream has already
// resolved from proxy headers.
func (rl *RateLimiter) Middleware(getTier func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tier := getTier(r)
			result := rl.Check(r.Context(), tier, r.RemoteAddr)

			if result.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			}

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"error":"rate_limit_exceeded","retry_after":%d}`,
					int(result.RetryAfter.Seconds()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
