package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-biller/utils"
)

const RequestIDHeader = "X-Request-ID"

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"route":      c.FullPath(),
			"path":       path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}
		if s, ok := CurrentSession(c); ok {
			fields["user_id"] = s.UserID
		}

		entry := utils.InfoLogger.WithFields(fields)
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		entry.Info("request")
	}
}
