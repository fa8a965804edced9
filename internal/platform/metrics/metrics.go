package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors.
// Every Record method is safe to call on a nil *Metrics.
type Metrics struct {
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Backfill outcomes per target date
	BackfillItemsTotal prometheus.CounterVec

	// Nearest-date lookups by the tier that answered
	RateLookupsTotal prometheus.CounterVec

	// Upstream calls by provider and tagged result
	UpstreamCallsTotal prometheus.CounterVec

	StockRefreshTotal prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Number of HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"method", "route"},
		),

		BackfillItemsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_backfill_items_total",
				Help: "Exchange rate backfill target dates by outcome (success, failed, skipped)",
			},
			[]string{"mode", "outcome"},
		),

		RateLookupsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_lookups_total",
				Help: "Exchange rate lookups by answering tier (exact, before, after, default)",
			},
			[]string{"tier"},
		),

		UpstreamCallsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_calls_total",
				Help: "Calls to third-party providers by result",
			},
			[]string{"provider", "result"},
		),

		StockRefreshTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_refresh_total",
				Help: "Per-ticker refresh outcomes",
			},
			[]string{"mode", "status"},
		),
	}
}

// RecordHTTPRequest records one finished request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordBackfillItem records the outcome of one backfill target date.
func (m *Metrics) RecordBackfillItem(mode, outcome string) {
	if m == nil {
		return
	}
	m.BackfillItemsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordRateLookup records which fallback tier answered a lookup.
func (m *Metrics) RecordRateLookup(tier string) {
	if m == nil {
		return
	}
	m.RateLookupsTotal.WithLabelValues(tier).Inc()
}

// RecordUpstreamCall records a provider call; result is a providers.ResultKind string or "error".
func (m *Metrics) RecordUpstreamCall(provider, result string) {
	if m == nil {
		return
	}
	m.UpstreamCallsTotal.WithLabelValues(provider, result).Inc()
}

// RecordStockRefresh records one ticker's refresh outcome.
func (m *Metrics) RecordStockRefresh(mode, status string) {
	if m == nil {
		return
	}
	m.StockRefreshTotal.WithLabelValues(mode, status).Inc()
}
