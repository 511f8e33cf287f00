// Package metrics exposes Prometheus counters for settlement and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coopledger/internal/domain/settlement"
)

// Line outcomes used as the "outcome" label.
const (
	OutcomeSettled = "settled"
	OutcomeWarning = "warning"
	OutcomeFailed  = "failed"
)

// Metrics holds all service metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersSettled      prometheus.Counter
	OrderLines         *prometheus.CounterVec
	OutOfStock         prometheus.Counter
	Replays            prometheus.Counter
	SettlementDuration prometheus.Histogram
}

var _ settlement.Recorder = (*Metrics)(nil)

// New creates and registers all metrics under namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	m.OrdersSettled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_settled_total",
		Help:      "Orders that went through settlement",
	})

	m.OrderLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_lines_total",
			Help:      "Order lines by settlement outcome",
		},
		[]string{"outcome"},
	)

	m.OutOfStock = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_depleted_total",
		Help:      "Lines that left a production lot at zero",
	})

	m.Replays = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_replays_total",
		Help:      "Submissions answered from a stored idempotent result",
	})

	m.SettlementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_duration_seconds",
		Help:      "Time to settle one order",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersSettled,
		m.OrderLines,
		m.OutOfStock,
		m.Replays,
		m.SettlementDuration,
	)
	return m
}

// Handler returns the /metrics handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSettlement records one settled order.
func (m *Metrics) ObserveSettlement(res *settlement.Result, took time.Duration) {
	m.OrdersSettled.Inc()
	m.SettlementDuration.Observe(took.Seconds())

	for _, l := range res.Lines {
		switch {
		case !l.Recorded():
			m.OrderLines.WithLabelValues(OutcomeFailed).Inc()
		case l.HasWarning():
			m.OrderLines.WithLabelValues(OutcomeWarning).Inc()
		default:
			m.OrderLines.WithLabelValues(OutcomeSettled).Inc()
		}
		if l.OutOfStock {
			m.OutOfStock.Inc()
		}
	}
}

// ObserveReplay records a replayed submission.
func (m *Metrics) ObserveReplay() {
	m.Replays.Inc()
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, took time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(took.Seconds())
}
