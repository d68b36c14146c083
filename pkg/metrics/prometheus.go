package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SubscribeResults   *prometheus.CounterVec
	UnsubscribeResults *prometheus.CounterVec
	CollaboratorErrors *prometheus.CounterVec
	StaleResponses     prometheus.Counter
	UnknownPhaseCodes  *prometheus.CounterVec
	SearchLatency      prometheus.Histogram
	CacheHits          prometheus.Counter
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubscribeResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscribe_total",
			Help:      "Subscribe actions by result",
		}, []string{"result"}),
		UnsubscribeResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unsubscribe_total",
			Help:      "Bulk unsubscribe actions by result",
		}, []string{"result"}),
		CollaboratorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_errors_total",
			Help:      "Failed calls to the backend or oracle collaborators",
		}, []string{"operation"}),
		StaleResponses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_dropped_total",
			Help:      "Search responses discarded because a newer search was issued",
		}),
		UnknownPhaseCodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_phase_codes_total",
			Help:      "Raw status codes that did not map to a known phase",
		}, []string{"code"}),
		SearchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_search_seconds",
			Help:      "Time taken by backend flight searches",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_hits_total",
			Help:      "Flight searches served from cache",
		}),
	}
}

func (m *Metrics) ObserveSubscribe(result string) {
	if m == nil {
		return
	}
	m.SubscribeResults.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveUnsubscribe(result string) {
	if m == nil {
		return
	}
	m.UnsubscribeResults.WithLabelValues(result).Inc()
}

func (m *Metrics) CollaboratorError(operation string) {
	if m == nil {
		return
	}
	m.CollaboratorErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) StaleResponse() {
	if m == nil {
		return
	}
	m.StaleResponses.Inc()
}

func (m *Metrics) UnknownPhaseCode(code string) {
	if m == nil {
		return
	}
	m.UnknownPhaseCodes.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveSearch(started time.Time) {
	if m == nil {
		return
	}
	m.SearchLatency.Observe(time.Since(started).Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}
