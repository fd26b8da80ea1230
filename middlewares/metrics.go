package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GuardDecisions      *prometheus.CounterVec
	RateLimited         *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg under the given name prefix.
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		GuardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_guard_decisions_total",
				Help: "Request guard outcomes",
			},
			[]string{"decision"},
		),
		RateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_rate_limited_total",
				Help: "Requests rejected by the login rate limiter",
			},
			[]string{"route"},
		),
	}
}

func (m *Metrics) guardDecision(decision string) {
	if m == nil {
		return
	}
	m.GuardDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) rateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(route).Inc()
}

func MetricsMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
