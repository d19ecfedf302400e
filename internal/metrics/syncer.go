package metrics

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/adapter"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/blocktree"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncerHeartbeatTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "heartbeats_total",
		Help:      "Count of heartbeat ticks by feature mode.",
	}, []string{"network", "mode"})

	syncerHeartbeatDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "heartbeat_duration_seconds",
		Help:      "Duration of a heartbeat tick.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"network", "mode"})

	syncerResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "responses_processed_total",
		Help:      "Count of adapter responses drained by kind.",
	}, []string{"network", "kind"})

	syncerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "blocks_total",
		Help:      "Count of received blocks by outcome.",
	}, []string{"network", "status"})

	syncerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "requests_total",
		Help:      "Count of get successors requests by outcome.",
	}, []string{"network", "status"})

	syncerMainChainHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "main_chain_height",
		Help:      "Height of the main chain tip.",
	}, []string{"network"})

	syncerUTXOs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "utxos",
		Help:      "Number of unspent outputs in the stable UTXO set.",
	}, []string{"network"})

	syncerAddressIndex = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "btcsync",
		Name:      "address_index_size",
		Help:      "Number of addresses owning at least one unspent output.",
	}, []string{"network"})
)

// Syncer tracks heartbeat metrics for one network.
type Syncer struct {
	network model.Network
}

// NewSyncer constructs a Syncer collector.
func NewSyncer(network model.Network) *Syncer {
	if network == "" {
		network = "unknown"
	}
	return &Syncer{network: network}
}

// ObserveHeartbeat records a finished tick.
func (m Syncer) ObserveHeartbeat(mode model.FeatureMode, started time.Time) {
	syncerHeartbeatTotal.WithLabelValues(string(m.network), string(mode)).Inc()
	syncerHeartbeatDuration.WithLabelValues(string(m.network), string(mode)).Observe(time.Since(started).Seconds())
}

// ObserveResponse counts a drained response.
func (m Syncer) ObserveResponse(kind string) {
	syncerResponsesTotal.WithLabelValues(string(m.network), kind).Inc()
}

// ObserveBlock counts a received block by the outcome of translating and inserting it.
func (m Syncer) ObserveBlock(err error) {
	syncerBlocksTotal.WithLabelValues(string(m.network), blockStatus(err)).Inc()
}

// ObserveRequest counts an attempt to enqueue a request.
func (m Syncer) ObserveRequest(err error) {
	status := "sent"
	var full *adapter.QueueFullError
	switch {
	case errors.As(err, &full):
		status = "queue_full"
	case err != nil:
		status = "error"
	}
	syncerRequestsTotal.WithLabelValues(string(m.network), status).Inc()
}

// ObserveChainState updates the chain gauges.
func (m Syncer) ObserveChainState(height uint32, utxos, addresses int) {
	syncerMainChainHeight.WithLabelValues(string(m.network)).Set(float64(height))
	syncerUTXOs.WithLabelValues(string(m.network)).Set(float64(utxos))
	syncerAddressIndex.WithLabelValues(string(m.network)).Set(float64(addresses))
}

func blockStatus(err error) string {
	var notExtending blocktree.BlockDoesNotExtendTreeError
	switch {
	case err == nil:
		return "inserted"
	case errors.Is(err, service.ErrBlockKnown):
		return "known"
	case errors.Is(err, bitcoin.ErrMalformedHash):
		return "malformed"
	case errors.As(err, &notExtending):
		return "rejected"
	default:
		return "error"
	}
}
