package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of query API requests.",
	}, []string{"handler", "code", "method"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of query API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"handler", "code", "method"})
)

// InstrumentHandler wraps next with request count and latency metrics labeled by name.
func InstrumentHandler(name string, next http.Handler) http.Handler {
	if name == "" {
		name = "unknown"
	}
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerCounter(
		httpRequestsTotal.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(httpRequestDuration.MustCurryWith(labels), next),
	)
}
