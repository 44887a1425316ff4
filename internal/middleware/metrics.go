package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alumnet",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alumnet",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "alumnet",
			Name:      "http_active_requests",
			Help:      "Number of in-flight HTTP requests",
		},
	)

	dbConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "alumnet",
			Name:      "db_connections_open",
			Help:      "Open database connections",
		},
	)

	realtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "alumnet",
			Name:      "ws_connections",
			Help:      "Open WebSocket connections",
		},
	)
)

// Metrics collects Prometheus request metrics labelled by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		activeRequests.Inc()
		c.Next()
		activeRequests.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// SetDBConnectionsOpen updates the database pool gauge
func SetDBConnectionsOpen(n int) {
	dbConnectionsOpen.Set(float64(n))
}

// TrackRealtimeConnection adjusts the WebSocket gauge by delta
func TrackRealtimeConnection(delta int) {
	realtimeConnections.Add(float64(delta))
}
