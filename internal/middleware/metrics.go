package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"empregol-backend/internal/metrics"
)

// RequestMetrics records count and latency of every request by its route
// pattern, so ids in paths do not explode label cardinality.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
