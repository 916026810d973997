// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"food-ordering-api/dberr"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "food_ordering",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "food_ordering",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "food_ordering",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed store operations by operation and error kind.",
		},
		[]string{"op", "kind"},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "food_ordering",
			Subsystem: "uploads",
			Name:      "total",
			Help:      "Multipart uploads by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		storeErrors,
		uploads,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// StoreError counts a failed store operation.
func StoreError(op string, kind dberr.Kind) {
	storeErrors.WithLabelValues(op, string(kind)).Inc()
}

// Upload counts an upload attempt with outcome "stored", "missing" or "failed".
func Upload(outcome string) {
	uploads.WithLabelValues(outcome).Inc()
}
