package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 测评域指标
	SessionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_sessions_completed_total",
			Help: "Completed evaluation sessions by final status",
		},
		[]string{"skill", "status"},
	)

	WeakTopicsFlagged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weak_topics_flagged_total",
			Help: "Weak topics flagged for remediation",
		},
		[]string{"skill"},
	)

	RetestsGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "retests_granted_total",
			Help: "Retest eligibilities that flipped to eligible",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SessionsCompleted)
	prometheus.MustRegister(WeakTopicsFlagged)
	prometheus.MustRegister(RetestsGranted)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
