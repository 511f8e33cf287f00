package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"coopledger/pkg/logger"
)

// RequestRecorder receives per-request timings.
type RequestRecorder interface {
	RecordHTTPRequest(method, path string, status int, took time.Duration)
}

// Logger attaches log to the request context and logs every request with
// timing and status. rec may be nil.
func Logger(log *logger.Logger, rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if rec != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			rec.RecordHTTPRequest(c.Request.Method, route, status, latency)
		}

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
