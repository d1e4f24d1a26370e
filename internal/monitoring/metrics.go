package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentidash_http_requests_total",
		Help: "HTTP requests served, by route, method and status code.",
	}, []string{"route", "method", "code"})

	queryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentidash_query_failures_total",
		Help: "Failed storage queries, by operation and failure reason.",
	}, []string{"op", "reason"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentidash_query_duration_seconds",
		Help:    "Storage query latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentidash_cache_requests_total",
		Help: "Payload cache lookups, by result.",
	}, []string{"result"})
)

// InstrumentRoute counts requests served by h under the given route label.
func InstrumentRoute(route string, h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(
		httpRequests.MustCurryWith(prometheus.Labels{"route": route}), h)
}

// ObserveQuery records a storage query. reason is empty on success.
func ObserveQuery(op string, start time.Time, reason string) {
	queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if reason != "" {
		queryFailures.WithLabelValues(op, reason).Inc()
	}
}

func CacheHit()  { cacheRequests.WithLabelValues("hit").Inc() }
func CacheMiss() { cacheRequests.WithLabelValues("miss").Inc() }

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
