package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthkonnect/healthkonnect-api/pkg/metrics"
)

// Metrics records request counts and latencies. Uses the route template
// (c.FullPath) rather than the raw URL to keep label cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
