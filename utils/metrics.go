package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the request counters and latency histogram of the API
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewHTTPMetrics registers the API metrics on reg
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donatehub",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "donatehub",
			Name:      "http_request_duration_seconds",
			Help:      "Request latency",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"method", "endpoint"}),
	}
	reg.MustRegister(m.Requests, m.Latency)
	return m
}

// Middleware records one observation per request, labelled by route
// template so that path parameters do not explode cardinality
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			m.Latency.WithLabelValues(c.Request.Method, endpointLabel(c)).Observe(v)
		}))
		c.Next()
		timer.ObserveDuration()
		m.Requests.WithLabelValues(c.Request.Method, endpointLabel(c), strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func endpointLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

// MetricsHandler exposes the metrics gathered by g
func MetricsHandler(g prometheus.Gatherer) gin.HandlerFunc {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Healthz answers liveness probes
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
