package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ListingCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_listing_cache_lookups_total",
			Help: "Index listing cache lookups by result",
		},
		[]string{"result"},
	)

	ListingResolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_listing_resolve_duration_seconds",
			Help:    "Duration of live listing resolution by context kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	FanReplicationLag = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fan_replication_lag_seconds",
			Help:    "Delay between a follow change and its follower index write",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	FanReplicatorQueue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fan_replicator_queue_length",
			Help: "Pending follower index replication jobs",
		},
	)
)

var registerOnce sync.Once

// Register 注册全部指标到默认 registry，可重复调用
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestDuration,
			ListingCacheLookups,
			ListingResolveDuration,
			FanReplicationLag,
			FanReplicatorQueue,
		)
	})
}
