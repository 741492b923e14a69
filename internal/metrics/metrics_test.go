package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequestLabelsOutcome(t *testing.T) {
	m := New()

	m.ObserveRequest("documents", http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveRequest("documents", http.MethodGet, 0, time.Millisecond)
	m.ObserveRequest("documents", http.MethodGet, 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("documents", "GET", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("documents", "GET", "network_error")))
}

func TestPollerGauge(t *testing.T) {
	m := New()

	m.SetPollerArmed(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pollerArmed))

	m.SetPollerArmed(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.pollerArmed))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("quiz", http.MethodPost, 500, time.Second)
		m.ObserveDispatch("documents/refresh")
		m.PollTick()
		m.SetPollerArmed(true)
		m.RecordCacheLookup(true)
		m.EventPublished("document.ready")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.PollTick()
	m.ObserveDispatch("chat/send/fulfilled")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "revise_poller_ticks_total 1"))
	assert.True(t, strings.Contains(body, `revise_state_dispatches_total{action="chat/send/fulfilled"} 1`))
}
