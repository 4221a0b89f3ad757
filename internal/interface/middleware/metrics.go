package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/pkg/metrics"
)

// Metrics records request count and latency per matched route.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
