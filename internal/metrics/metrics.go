package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"arithma/internal/assets"
)

// Metrics はサーバーが使うPrometheusコレクタをまとめたもの
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	PanicsTotal        prometheus.Counter
	RateLimitDropped   prometheus.Counter
	CachedAssets       *prometheus.GaugeVec
}

// New はコレクタを作成して registry に登録する
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arithma_requests_total",
			Help: "Total number of HTTP requests by route kind and status.",
		}, []string{"kind", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arithma_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		PanicsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arithma_request_panics_total",
			Help: "Total number of requests that panicked and were recovered.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arithma_ratelimit_dropped_total",
			Help: "Total number of requests dropped by the rate limiter.",
		}),
		CachedAssets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arithma_cached_assets",
			Help: "Number of asset table entries by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.PanicsTotal,
		m.RateLimitDropped,
		m.CachedAssets,
	)

	return m
}

// ObserveTable はテーブルの内訳をゲージに反映する
func (m *Metrics) ObserveTable(table *assets.Table) {
	stats := table.Stats()
	m.CachedAssets.WithLabelValues("cached").Set(float64(stats.Cached))
	m.CachedAssets.WithLabelValues("not_found").Set(float64(stats.NotFound))
	m.CachedAssets.WithLabelValues("failed").Set(float64(stats.Failed))
}
