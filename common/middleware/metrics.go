package middleware

import (
	"context"
	"time"

	awspkg "github.com/Ryan-gomezzz/Hush-gentle/pkg/aws"
	"github.com/gin-gonic/gin"
)

// MetricsRecorder is the subset of awspkg.MetricsClient the middleware needs.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, d time.Duration, dimensions map[string]string) error
	IsEnabled() bool
}

// MetricsMiddleware records request count, latency and error counters per route.
// Publishing happens off the request goroutine.
func MetricsMiddleware(recorder MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !recorder.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		dimensions := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Route":   route,
			"Status":  statusClass(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = recorder.RecordCount(ctx, awspkg.MetricHTTPRequests, dimensions)
			_ = recorder.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dimensions)
			if status >= 400 {
				_ = recorder.RecordCount(ctx, awspkg.MetricHTTPErrors, dimensions)
				if status >= 500 {
					_ = recorder.RecordCount(ctx, awspkg.MetricHTTP5xx, dimensions)
				} else {
					_ = recorder.RecordCount(ctx, awspkg.MetricHTTP4xx, dimensions)
				}
			}
		}()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "unknown"
	}
}
