package middleware

import (
	"time"

	"github.com/SscSPs/stock_insights_api/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// RequestMetrics records request counts and latency by matched route.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
