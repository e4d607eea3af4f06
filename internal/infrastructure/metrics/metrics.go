package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "truckhub"

// ListingMetrics holds the service's Prometheus collectors.
type ListingMetrics struct {
	Registry *prometheus.Registry

	WizardSubmitsTotal  *prometheus.CounterVec   // outcome
	ValidationFailures  prometheus.Counter
	ListingsPublished   *prometheus.CounterVec   // listing_mode, paid
	CheckoutEventsTotal *prometheus.CounterVec   // status
	HTTPRequestDuration *prometheus.HistogramVec // method, route, status
}

func NewListingMetrics() *ListingMetrics {
	registry := prometheus.NewRegistry()

	m := &ListingMetrics{
		Registry: registry,
		WizardSubmitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_submits_total",
			Help:      "Wizard submissions by outcome.",
		}, []string{"outcome"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_validation_failures_total",
			Help:      "Publish attempts refused by the listing validator.",
		}),
		ListingsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_published_total",
			Help:      "Listings that became active.",
		}, []string{"listing_mode", "paid"}),
		CheckoutEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_events_total",
			Help:      "Checkout outcomes applied to staged listings.",
		}, []string{"status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.WizardSubmitsTotal,
		m.ValidationFailures,
		m.ListingsPublished,
		m.CheckoutEventsTotal,
		m.HTTPRequestDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

func (m *ListingMetrics) ObserveSubmit(outcome string) {
	if m == nil {
		return
	}
	m.WizardSubmitsTotal.WithLabelValues(outcome).Inc()
}

func (m *ListingMetrics) ObserveValidationFailure() {
	if m == nil {
		return
	}
	m.ValidationFailures.Inc()
}

func (m *ListingMetrics) ObservePublished(mode string, paid bool) {
	if m == nil {
		return
	}
	m.ListingsPublished.WithLabelValues(mode, strconv.FormatBool(paid)).Inc()
}

func (m *ListingMetrics) ObserveCheckout(status string) {
	if m == nil {
		return
	}
	m.CheckoutEventsTotal.WithLabelValues(status).Inc()
}

// Middleware records request latency per registered route.
func (m *ListingMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *ListingMetrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
