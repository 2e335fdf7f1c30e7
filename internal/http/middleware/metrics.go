package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrorCodeKey is the gin context key under which handlers record the
// error code of a failed response, e.g. "upstream_failed".
const ErrorCodeKey = "errorCode"

// unmatchedRoute labels requests that did not match a registered route.
const unmatchedRoute = "unmatched"

// httpMetrics groups the collectors observed per request. Labels use the
// registered route so raw URLs (interaction IDs, scanner noise) never reach
// Prometheus.
type httpMetrics struct {
	requests *prometheus.CounterVec   // method, route, status
	duration *prometheus.HistogramVec // method, route
	inflight prometheus.Gauge
	apiErrs  *prometheus.CounterVec // route, code
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		// Completions dominate latency, so buckets reach well past a minute.
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Requests currently being served.",
		}),
		apiErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Error responses by route and API error code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.requests, m.duration, m.inflight, m.apiErrs)
	return m
}

func (m *httpMetrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if code := c.GetString(ErrorCodeKey); code != "" {
			m.apiErrs.WithLabelValues(route, code).Inc()
		}
	}
}

var defaultHTTPMetrics = newHTTPMetrics(prometheus.DefaultRegisterer)

// Metrics records request counts, latency, in-flight requests and API error
// codes on the default Prometheus registry.
func Metrics() gin.HandlerFunc { return defaultHTTPMetrics.handler() }
