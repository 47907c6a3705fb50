package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pricetrack"

// Metrics groups the collectors exported by the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AlertsCreated   *prometheus.CounterVec
	StoreMutations  *prometheus.CounterVec
	PersistFailures prometheus.Counter
	FeedQuotes      *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	HTTPInFlight    prometheus.Gauge
	CatalogSize     *prometheus.GaugeVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AlertsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_created_total",
			Help:      "Alerts created by price mutations.",
		}, []string{"type"}),
		StoreMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Store mutations by operation.",
		}, []string{"op"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Blob writes that failed.",
		}),
		FeedQuotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_quotes_total",
			Help:      "Supplier feed quotes by outcome.",
		}, []string{"source", "outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		}),
		CatalogSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Records held by the store per collection.",
		}, []string{"collection"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) AlertCreated(kind string) {
	if m == nil {
		return
	}
	m.AlertsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.StoreMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) FeedQuote(source, outcome string) {
	if m == nil {
		return
	}
	m.FeedQuotes.WithLabelValues(source, outcome).Inc()
}

// SetCatalogSize records collection sizes after a mutation or load.
func (m *Metrics) SetCatalogSize(suppliers, products, alerts int) {
	if m == nil {
		return
	}
	m.CatalogSize.WithLabelValues("suppliers").Set(float64(suppliers))
	m.CatalogSize.WithLabelValues("products").Set(float64(products))
	m.CatalogSize.WithLabelValues("alerts").Set(float64(alerts))
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestStarted bumps the in-flight gauge; call the returned func when the
// request finishes.
func (m *Metrics) RequestStarted() func() {
	if m == nil {
		return func() {}
	}
	m.HTTPInFlight.Inc()
	return m.HTTPInFlight.Dec
}
