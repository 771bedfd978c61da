// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OnlinePlayers   prometheus.Gauge
	ActiveRooms     prometheus.Gauge
	ActionsTotal    *prometheus.CounterVec
	RoundsCompleted *prometheus.CounterVec
	ActionLatency   prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of online players",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active rooms",
		}),
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Total number of player actions processed",
		}, []string{"action", "outcome"}),
		RoundsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Total number of rounds resolved",
		}, []string{"team"}),
		ActionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_latency_seconds",
			Help:      "Player action processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	prometheus.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.ActionsTotal,
		m.RoundsCompleted,
		m.ActionLatency,
	)

	return m
}

type Monitor struct {
	metrics     *Metrics
	startTime   time.Time
	actionCount int64
	mutex       sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("actions", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.actionCount
	}))
	mux.Handle("/debug/vars", expvar.Handler())

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) IncAction(action, outcome string) {
	m.metrics.ActionsTotal.WithLabelValues(action, outcome).Inc()
	m.mutex.Lock()
	m.actionCount++
	m.mutex.Unlock()
}

func (m *Monitor) IncRoundCompleted(team string) {
	m.metrics.RoundsCompleted.WithLabelValues(team).Inc()
}

func (m *Monitor) ObserveActionLatency(duration time.Duration) {
	m.metrics.ActionLatency.Observe(duration.Seconds())
}
