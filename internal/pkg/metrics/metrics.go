package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdispatch",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapdispatch",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Dispatch metrics
	DispatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdispatch",
		Subsystem: "dispatch",
		Name:      "requests_total",
		Help:      "Directions requests by terminal state (completed, cancelled)",
	}, []string{"result"})

	DispatchLaunches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdispatch",
		Subsystem: "dispatch",
		Name:      "launches_total",
		Help:      "Launch attempts by app, selection source, and result",
	}, []string{"app", "source", "result"})

	LaunchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapdispatch",
		Subsystem: "dispatch",
		Name:      "launch_duration_seconds",
		Help:      "Time from dispatch to the app host completion signal",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"app"})

	ChooserPresented = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapdispatch",
		Subsystem: "chooser",
		Name:      "presented_total",
		Help:      "Total times the chooser UI was presented",
	})

	PreferenceLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapdispatch",
		Subsystem: "preference",
		Name:      "lookups_total",
		Help:      "Remembered-preference lookups by result (hit, miss, error)",
	}, []string{"result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapdispatch",
		Subsystem: "ws",
		Name:      "active_sessions",
		Help:      "Current number of active WebSocket sessions",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// Source labels a launch by how the app was picked.
func Source(fromMemory bool) string {
	if fromMemory {
		return "memory"
	}
	return "chooser"
}

// Result labels a boolean outcome.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
