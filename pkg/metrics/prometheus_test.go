package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.ObserveSubscribe("success")
	m.ObserveSubscribe("success")
	m.ObserveUnsubscribe("failure")
	m.CollaboratorError("search_flights")
	m.StaleResponse()
	m.UnknownPhaseCode("zzzz")
	m.CacheHit()
	m.ObserveSearch(time.Now().Add(-50 * time.Millisecond))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubscribeResults.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnsubscribeResults.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollaboratorErrors.WithLabelValues("search_flights")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResponses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnknownPhaseCodes.WithLabelValues("zzzz")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SearchLatency))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubscribe("success")
		m.ObserveUnsubscribe("success")
		m.CollaboratorError("subscribe")
		m.StaleResponse()
		m.UnknownPhaseCode("x")
		m.ObserveSearch(time.Now())
		m.CacheHit()
	})
}
