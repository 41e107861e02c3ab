package middleware

import (
	"time"

	"gps-monitor/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records HTTP metrics labelled by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPMetrics(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
