package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"go.uber.org/zap"
)

// RateLimitOptions bounds requests per client IP in fixed windows.
type RateLimitOptions struct {
	Name   string
	Max    int64
	Window time.Duration
}

// RateLimit allows at most opts.Max requests per IP per window. Admin
// requests are exempt. A Redis outage lets traffic through.
func RateLimit(rdb *redis.Client, opts RateLimitOptions, log *zap.Logger) gin.HandlerFunc {
	if opts.Window <= 0 {
		opts.Window = time.Second
	}
	return func(c *gin.Context) {
		if rdb == nil || IsAuthenticated(c) {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		window := time.Now().UnixNano() / int64(opts.Window)
		key := fmt.Sprintf("zivana:rate_limit:%s:%s:%d", opts.Name, ip, window)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Debug("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, opts.Window+time.Second)
		}
		if count > opts.Max {
			c.Header("Retry-After", fmt.Sprintf("%d", int(opts.Window.Seconds())+1))
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
