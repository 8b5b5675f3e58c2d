package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aulaplan/aula-sync-api/internal/service"
)

// Metrics times every request and feeds the Prometheus collectors. The
// route template is used as the path label so /sync/cursos and
// /sync/escuelas share a series instead of exploding cardinality per
// table; unrouted paths (404s) fall back to the raw URL.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "/metrics" {
			// Scrapes observing themselves add nothing.
			return
		}

		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
