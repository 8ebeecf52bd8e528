package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter per key. Redis errors let the
// request through.
type RedisLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	prefix  string
	timeout time.Duration
	script  *redis.Script
	logger  logger.Logger
}

// NewRedisLimiter returns nil when client is nil; a nil limiter allows
// everything.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string, log logger.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		prefix:  prefix,
		timeout: 250 * time.Millisecond,
		script:  redis.NewScript(rateLimitScript),
		logger:  logger.ForComponent(log, "rate-limiter"),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}
	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, l.limit).Int64()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
			"error": err,
			"key":   redisKey,
		})
		return true
	}
	return allowed == 1
}

// RateLimit rejects requests over the limit with 429, keyed by route and
// client IP.
func RateLimit(limiter *RedisLimiter, route string, errs *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), route+":"+clientIP(r)) {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				errs.Write(w, r, apperrors.NewRateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects RealIP to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
