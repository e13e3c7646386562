// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sessionPhases are the label values of the session_phase gauge.
var sessionPhases = []string{"empty", "waiting", "ready", "started"}

type Metrics struct {
	ConnectedPeers   prometheus.Gauge
	SessionPhase     *prometheus.GaugeVec
	MessagesReceived prometheus.Counter
	MovesApplied     prometheus.Counter
	MatchesStarted   prometheus.Counter
	DispatchLatency  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ConnectedPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_peers",
			Help:      "Number of connected peers",
		}),
		SessionPhase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_phase",
			Help:      "Current session phase (1 for the active phase)",
		}, []string{"phase"}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Total number of peer messages dispatched",
		}),
		MovesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_applied_total",
			Help:      "Total number of moves accepted by the engine",
		}),
		MatchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_started_total",
			Help:      "Total number of matches created",
		}),
		DispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_latency_seconds",
			Help:      "Action dispatch latency including effect execution",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	prometheus.MustRegister(
		m.ConnectedPeers,
		m.SessionPhase,
		m.MessagesReceived,
		m.MovesApplied,
		m.MatchesStarted,
		m.DispatchLatency,
	)

	return m
}

// Monitor exposes the metrics surface plus the /metrics HTTP endpoint.
type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

// StartServer serves /metrics and the expvar uptime on its own listener.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	expvar.Publish("uptime_seconds", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncConnectedPeers() {
	m.metrics.ConnectedPeers.Inc()
}

func (m *Monitor) DecConnectedPeers() {
	m.metrics.ConnectedPeers.Dec()
}

// SetSessionPhase marks one phase active and clears the rest.
func (m *Monitor) SetSessionPhase(name string) {
	for _, phase := range sessionPhases {
		value := 0.0
		if phase == name {
			value = 1.0
		}
		m.metrics.SessionPhase.WithLabelValues(phase).Set(value)
	}
}

func (m *Monitor) IncMessagesReceived() {
	m.metrics.MessagesReceived.Inc()
}

func (m *Monitor) IncMovesApplied() {
	m.metrics.MovesApplied.Inc()
}

func (m *Monitor) IncMatchesStarted() {
	m.metrics.MatchesStarted.Inc()
}

func (m *Monitor) ObserveDispatchLatency(d time.Duration) {
	m.metrics.DispatchLatency.Observe(d.Seconds())
}
