package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit returns a middleware that caps login attempts per client
// IP using a fixed window counter in Redis.  When rdb is nil (Redis not
// reachable at startup) the middleware is a no-op, matching the rest of
// the app's graceful degradation.  On a Redis error the request is allowed
// through rather than failing the login page.
func LoginRateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodPost {
				return next(c)
			}
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:login:%s", c.RealIP())
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				c.Logger().Warnf("ratelimit: redis error: %v", err)
				return next(c)
			}
			if n == 1 {
				rdb.Expire(ctx, key, window)
			}
			if n > int64(limit) {
				return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
			}
			return next(c)
		}
	}
}
