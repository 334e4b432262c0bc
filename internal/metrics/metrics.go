package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{5, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000}

var (
	LookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osint_lookups_total",
		Help: "Total lookups by kind and outcome",
	}, []string{"kind", "outcome"})
	LookupDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "osint_lookup_duration_ms",
		Help:    "Lookup duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"kind"})
	DegradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osint_degraded_total",
		Help: "Lookups answered with a degraded (best effort) record",
	}, []string{"kind"})
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osint_upstream_requests_total",
		Help: "Outbound upstream requests",
	}, []string{"source"})
	UpstreamFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osint_upstream_fail_total",
		Help: "Outbound upstream failures (transport, status or decode)",
	}, []string{"source"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "osint_upstream_duration_ms",
		Help:    "Outbound upstream call duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"source"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "osint_cache_hits_total",
		Help: "IP record cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "osint_cache_misses_total",
		Help: "IP record cache misses",
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "osint_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
	RelayTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "osint_contact_relay_total",
		Help: "Contact requests relayed to the messaging bot",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(LookupDurationMs)
	prometheus.MustRegister(DegradedTotal)
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamFailTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(RelayTotal)
}

// 文档注释：返回 Prometheus 指标处理器，由主入口挂载
func Handler() http.Handler { return promhttp.Handler() }
