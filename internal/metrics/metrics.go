package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one client process. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	dispatchTotal   *prometheus.CounterVec
	pollTicks       prometheus.Counter
	pollerArmed     prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// New registers the client collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revise_gateway_request_duration_seconds",
		Help:    "Duration of requests to the learning service",
		Buckets: prometheus.DefBuckets,
	}, []string{"group", "method"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revise_gateway_requests_total",
		Help: "Requests to the learning service by outcome",
	}, []string{"group", "method", "status"})

	dispatchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revise_state_dispatches_total",
		Help: "State transitions applied by the container",
	}, []string{"action"})

	pollTicks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revise_poller_ticks_total",
		Help: "Document list refreshes issued by the lifecycle poller",
	})

	pollerArmed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "revise_poller_armed",
		Help: "1 while a document is processing and the poller timer is active",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revise_video_cache_hits_total",
		Help: "Recommendation lookups served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revise_video_cache_misses_total",
		Help: "Recommendation lookups that went to the service",
	})

	eventsPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revise_events_published_total",
		Help: "Lifecycle notifications published",
	}, []string{"type"})

	registry.MustRegister(requestDuration, requestTotal, dispatchTotal, pollTicks, pollerArmed,
		cacheHits, cacheMisses, eventsPublished)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		dispatchTotal:   dispatchTotal,
		pollTicks:       pollTicks,
		pollerArmed:     pollerArmed,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		eventsPublished: eventsPublished,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRequest records one gateway call. status is 0 when no response arrived.
func (m *Metrics) ObserveRequest(group, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "network_error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.requestDuration.WithLabelValues(group, method).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(group, method, label).Inc()
}

func (m *Metrics) ObserveDispatch(action string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(action).Inc()
}

func (m *Metrics) PollTick() {
	if m == nil {
		return
	}
	m.pollTicks.Inc()
}

func (m *Metrics) SetPollerArmed(armed bool) {
	if m == nil {
		return
	}
	if armed {
		m.pollerArmed.Set(1)
		return
	}
	m.pollerArmed.Set(0)
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) EventPublished(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType).Inc()
}
