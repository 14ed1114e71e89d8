package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveIngested("PinkNews", 3)
	m.ObserveIngested("PinkNews", 0)
	m.ObserveSkipped(SkipAd)
	m.ObserveSkipped(SkipAd)
	m.ObserveSourceFailure("Broken Feed")
	m.ObservePurged(7)
	m.ObserveRecategorized(2)
	m.ObserveTask("sweep", nil)
	m.ObserveTask("sweep", errors.New("boom"))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.articlesIngested.WithLabelValues("PinkNews")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.articlesSkipped.WithLabelValues(SkipAd)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceFailures.WithLabelValues("Broken Feed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.articlesPurged))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.articlesRecategorized))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCompleted.WithLabelValues("sweep", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCompleted.WithLabelValues("sweep", "failure")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveIngested("x", 1)
		m.ObserveSkipped(SkipDuplicate)
		m.ObserveSourceFailure("x")
		m.ObservePurged(1)
		m.ObserveRecategorized(1)
		m.ObserveSweep(time.Second)
		m.ObserveTask("purge", nil)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSweep(2 * time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sieve_sweep_duration_seconds_count 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
