package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-biller/utils"
)

// LoginRateLimiter counts attempts per client IP and route in a fixed Redis
// window. Without Redis, or when Redis errors, requests pass unthrottled.
type LoginRateLimiter struct {
	rdb     *redis.Client
	limit   int
	window  time.Duration
	metrics *Metrics
}

func NewLoginRateLimiter(rdb *redis.Client, limit int, window time.Duration, m *Metrics) *LoginRateLimiter {
	return &LoginRateLimiter{rdb: rdb, limit: limit, window: window, metrics: m}
}

func (rl *LoginRateLimiter) key(c *gin.Context) string {
	return fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
}

func (rl *LoginRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rl.key(c)
		count, err := rl.rdb.Incr(ctx, key).Result()
		if err == nil && count == 1 {
			err = rl.rdb.Expire(ctx, key, rl.window).Err()
		}
		if err != nil {
			utils.ErrorLogger.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			rl.metrics.rateLimited(c.FullPath())
			retry := rl.window
			if ttl, err := rl.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retry = ttl
			}
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			msg := "Too many attempts. Please wait a moment and try again."
			if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
				c.HTML(http.StatusTooManyRequests, "error.html", gin.H{
					"Title":   "Slow down",
					"Message": msg,
				})
				c.Abort()
				return
			}
			utils.RespondError(c, http.StatusTooManyRequests, msg)
			return
		}
		c.Next()
	}
}
