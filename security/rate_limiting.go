package security

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles the credential endpoints with a Redis
// fixed-window counter keyed by client IP.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: redisClient, limit: int64(limit), window: window}
}

func (r *RateLimiter) AuthRateLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()
		key := fmt.Sprintf("ratelimit:auth:%s", e.RealIP())

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not lock everyone out.
			return e.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, key, r.window)
		}
		if count > r.limit {
			return apis.NewTooManyRequestsError("Too many attempts, please try again later.", nil)
		}

		return e.Next()
	}
}
