package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spendtrack/internal/logger"
)

const requestIDKey = "requestID"

// RequestID returns the identifier assigned to the current request, or ""
// outside the RequestLogging middleware.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogging tags every request with an ID, echoes it in X-Request-ID,
// and logs the outcome. Swagger asset requests are tagged but not logged.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		if strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			return
		}

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, "query", query)
		}

		log := logger.Get()
		if len(c.Errors) > 0 {
			log.Warnw("request failed", fields...)
			return
		}
		log.Infow("request", fields...)
	}
}
