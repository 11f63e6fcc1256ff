package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herdview",
		Subsystem: "farmapi",
		Name:      "requests_total",
		Help:      "Requests issued to the upstream farm API.",
	}, []string{"method", "path", "status"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "herdview",
		Subsystem: "farmapi",
		Name:      "request_duration_seconds",
		Help:      "Upstream farm API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	listRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herdview",
		Subsystem: "lists",
		Name:      "requests_total",
		Help:      "List-page requests served, by resource.",
	}, []string{"resource"})

	staleServes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "herdview",
		Subsystem: "lists",
		Name:      "stale_serves_total",
		Help:      "List-page requests answered from the last-good snapshot.",
	}, []string{"resource"})
)

// ObserveUpstreamRequest records one upstream call. A status of 0 means
// the request never completed.
func ObserveUpstreamRequest(method, path string, status int, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	upstreamLatency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func ObserveListRequest(resource string) {
	listRequests.WithLabelValues(resource).Inc()
}

func ObserveStaleServe(resource string) {
	staleServes.WithLabelValues(resource).Inc()
}
