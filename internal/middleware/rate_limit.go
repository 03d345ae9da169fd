package middleware

import (
	"fmt"
	"time"

	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimit allows limit requests per client IP in each window. Requests pass
// through when client is nil or Redis cannot be reached.
func RateLimit(client *redis.Client, prefix string, limit int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", prefix, c.RealIP())

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("component", "RateLimit").Msg("")
				return next(c)
			}

			if count == 1 {
				if err := client.Expire(ctx, key, window).Err(); err != nil {
					log.Ctx(ctx).Warn().Err(err).Str("component", "RateLimit").Msg("")
				}
			}

			if count > limit {
				return response.WriteErrorResponse(c, errs.ErrTooManyRequests, nil)
			}

			return next(c)
		}
	}
}
