package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetcherRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "fetcher",
		Name:      "requests_total",
		Help:      "Count of adapter requests answered by the fetcher.",
	}, []string{"network", "kind", "status"})

	fetcherRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "fetcher",
		Name:      "request_duration_seconds",
		Help:      "Duration of answering an adapter request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "kind", "status"})

	fetcherResponseBlocks = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "fetcher",
		Name:      "response_blocks",
		Help:      "Number of blocks per get successors response.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"network"})

	fetcherCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "fetcher",
		Name:      "block_cache_lookups_total",
		Help:      "Count of block cache lookups by result.",
	}, []string{"network", "result"})
)

// Fetcher tracks metrics for the adapter-side fetcher.
type Fetcher struct {
	network model.Network
}

// NewFetcher constructs a Fetcher collector.
func NewFetcher(network model.Network) *Fetcher {
	if network == "" {
		network = "unknown"
	}
	return &Fetcher{network: network}
}

// ObserveHandle records an answered request.
func (m Fetcher) ObserveHandle(kind string, err error, blocks int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	fetcherRequestsTotal.WithLabelValues(string(m.network), kind, status).Inc()
	fetcherRequestDuration.WithLabelValues(string(m.network), kind, status).Observe(time.Since(started).Seconds())
	if kind == "get_successors" {
		fetcherResponseBlocks.WithLabelValues(string(m.network)).Observe(float64(blocks))
	}
}

// ObserveCache records a block cache lookup.
func (m Fetcher) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	fetcherCacheLookups.WithLabelValues(string(m.network), result).Inc()
}
