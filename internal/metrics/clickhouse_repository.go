package metrics

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-btcsync/internal/btcsync/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of snapshot and ledger queries.",
	}, []string{"operation", "network", "status"})
	repositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of snapshot and ledger queries.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"operation", "network", "status"})
)

// ClickhouseRepository records snapshot store and ledger query outcomes.
type ClickhouseRepository struct{}

func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records one query. A missing snapshot is counted as not_found rather than error.
func (ClickhouseRepository) Observe(operation string, network model.Network, err error, started time.Time) {
	if network == "" {
		network = "unknown"
	}
	status := repositoryStatus(err)
	repositoryOperationsTotal.WithLabelValues(operation, string(network), status).Inc()
	repositoryOperationDuration.WithLabelValues(operation, string(network), status).Observe(time.Since(started).Seconds())
}

func repositoryStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, model.ErrSnapshotNotFound):
		return "not_found"
	default:
		return "error"
	}
}
