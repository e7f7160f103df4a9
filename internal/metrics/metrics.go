// Package metrics exposes Prometheus instrumentation for both services:
// HTTP request metrics recorded by an echo middleware and domain counters
// for the reservation lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the collectors registered on it.  Each
// service builds its own so tests can run in parallel without clashing on
// the global registry.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	AuthFailures    *prometheus.CounterVec
	Reservations    *prometheus.CounterVec
}

// New registers the collectors for service (e.g. "users", "flights").
func New(service string) *Metrics {
	labels := prometheus.Labels{"service": service}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "booking",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "booking",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "booking",
			Subsystem:   "auth",
			Name:        "failures_total",
			Help:        "Rejected requests by reason (unauthenticated, forbidden, bad_credentials).",
			ConstLabels: labels,
		}, []string{"reason"}),
		Reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "booking",
			Subsystem:   "reservations",
			Name:        "transitions_total",
			Help:        "Reservation lifecycle events (created, cancelled).",
			ConstLabels: labels,
		}, []string{"event"}),
	}
	m.Registry.MustRegister(
		m.RequestDuration,
		m.RequestTotal,
		m.AuthFailures,
		m.Reservations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records duration and count for every request, labelled by the
// matched route template rather than the raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			code := strconv.Itoa(status)
			m.RequestDuration.WithLabelValues(c.Request().Method, route, code).Observe(time.Since(start).Seconds())
			m.RequestTotal.WithLabelValues(c.Request().Method, route, code).Inc()
			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
