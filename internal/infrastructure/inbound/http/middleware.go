package delivery_http

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	ports "blog-post-service/internal/domain/ports/output"
)

// RequestLogger logs every request and records its count and latency.
// The matched route pattern is used as the path label to keep cardinality bounded.
func RequestLogger(log ports.Logger, metrics ports.MetricsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		duration := time.Since(start)

		metrics.IncrementHTTPRequests(c.Request.Method, path, strconv.Itoa(status))
		metrics.RecordHTTPRequestDuration(c.Request.Method, path, duration)

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		}
		if status >= 500 {
			log.Error("HTTP request failed", attrs...)
			return
		}
		log.Info("HTTP request", attrs...)
	}
}
