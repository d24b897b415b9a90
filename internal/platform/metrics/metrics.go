package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// ServerMetrics holds the HTTP and checkout collectors of one process. Each
// instance owns its registry so tests can build several side by side.
type ServerMetrics struct {
	Registry            *prometheus.Registry
	Requests            *prometheus.CounterVec
	LatencyMS           *prometheus.HistogramVec
	CheckoutTransitions *prometheus.CounterVec
	CheckoutsInFlight   prometheus.Gauge
	ShoppingSessions    prometheus.Gauge
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "checkout_transitions_total",
		Help:      "Checkout state transitions by target state.",
	}, []string{"state"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "checkouts_in_flight",
		Help:      "Checkout attempts currently loading.",
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "shopping_sessions",
		Help:      "Shopping sessions holding a cart in memory.",
	})

	registry.MustRegister(
		requests, latency, transitions, inFlight, sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &ServerMetrics{
		Registry:            registry,
		Requests:            requests,
		LatencyMS:           latency,
		CheckoutTransitions: transitions,
		CheckoutsInFlight:   inFlight,
		ShoppingSessions:    sessions,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request count and latency per matched route.
func (m *ServerMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// ObserveCheckout counts a checkout transition. Every attempt enters
// "requesting" once and settles to "idle" once.
func (m *ServerMetrics) ObserveCheckout(state string) {
	m.CheckoutTransitions.WithLabelValues(state).Inc()
	switch state {
	case "requesting":
		m.CheckoutsInFlight.Inc()
	case "idle":
		m.CheckoutsInFlight.Dec()
	}
}

// ObserveSessions records the number of live shopping sessions.
func (m *ServerMetrics) ObserveSessions(n int) {
	m.ShoppingSessions.Set(float64(n))
}
