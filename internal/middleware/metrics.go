package middleware

import (
	"strconv"
	"time"

	"socks_stock/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records every request against its route pattern.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Observe(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
