package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the shop counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	handler      http.Handler
	sales        prometheus.Counter
	declined     prometheus.Counter
	unitsSold    prometheus.Counter
	trends       *prometheus.CounterVec
	imageLookups *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_sales_total",
			Help: "Sales recorded in the ledger.",
		}),
		declined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_sales_declined_total",
			Help: "Sales refused for insufficient stock.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopkeep_units_sold_total",
			Help: "Units removed from stock by sales.",
		}),
		trends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopkeep_trends_requests_total",
			Help: "Trends analysis requests by outcome.",
		}, []string{"outcome"}),
		imageLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopkeep_image_lookups_total",
			Help: "Item image lookups by the source that served them.",
		}, []string{"source"}),
	}
	registry.MustRegister(m.sales, m.declined, m.unitsSold, m.trends, m.imageLookups)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) SaleRecorded(units int) {
	if m == nil {
		return
	}
	m.sales.Inc()
	m.unitsSold.Add(float64(units))
}

func (m *Metrics) SaleDeclined() {
	if m == nil {
		return
	}
	m.declined.Inc()
}

// Trends outcome is one of ok, empty, failed.
func (m *Metrics) Trends(outcome string) {
	if m == nil {
		return
	}
	m.trends.WithLabelValues(outcome).Inc()
}

// ImageLookup source is one of provider, cache, placeholder.
func (m *Metrics) ImageLookup(source string) {
	if m == nil {
		return
	}
	m.imageLookups.WithLabelValues(source).Inc()
}
