package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window counter shared by every replica through Redis.
// A Redis outage lets requests through; the limiter never takes the API down.
type RateLimiter struct {
	Redis  *redis.Client
	Log    *zap.SugaredLogger
	Prefix string
	Limit  int // requests per window
	Window time.Duration
}

func NewRateLimiter(r *redis.Client, log *zap.SugaredLogger, prefix string, limit int, window time.Duration) *RateLimiter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RateLimiter{Redis: r, Log: log, Prefix: prefix, Limit: limit, Window: window}
}

func (r *RateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		redisKey := fmt.Sprintf("%s:%s", r.Prefix, keyFunc(c))

		count, err := r.Redis.Incr(ctx, redisKey).Result()
		if err != nil {
			r.Log.Warnw("rate limiter unavailable", "key", redisKey, "error", err)
			return c.Next()
		}
		if count == 1 {
			// a counter without a TTL would block the key forever
			if err := r.Redis.Expire(ctx, redisKey, r.Window).Err(); err != nil {
				r.Log.Warnw("rate limiter expire failed", "key", redisKey, "error", err)
				r.Redis.Del(ctx, redisKey)
				return c.Next()
			}
		}
		if count > int64(r.Limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded"})
		}
		return c.Next()
	}
}

// ByIP keys the limiter on the client address.
func (r *RateLimiter) ByIP() fiber.Handler {
	return r.MiddlewareByKey(func(c *fiber.Ctx) string { return c.IP() })
}
