// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ActivePlayers prometheus.Gauge
	Watchers      prometheus.Gauge
	Drawings      prometheus.Counter
	Jackpots      prometheus.Counter
	TickDuration  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ActivePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_players",
			Help:      "Number of players in the game",
		}),
		Watchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watchers",
			Help:      "Number of connected websocket watchers",
		}),
		Drawings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drawings_total",
			Help:      "Total number of drawings run",
		}),
		Jackpots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jackpots_total",
			Help:      "Total number of jackpots hit",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent inside one drawing tick",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		}),
	}

	prometheus.MustRegister(
		m.ActivePlayers,
		m.Watchers,
		m.Drawings,
		m.Jackpots,
		m.TickDuration,
	)

	return m
}

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

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))
	mux.Handle("/debug/vars", expvar.Handler())

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) SetActivePlayers(count int) {
	m.metrics.ActivePlayers.Set(float64(count))
}

func (m *Monitor) SetWatchers(count int) {
	m.metrics.Watchers.Set(float64(count))
}

// AddDrawings, RecordJackpot and ObserveTickDuration satisfy the scheduler's
// Metrics interface.

func (m *Monitor) AddDrawings(n int) {
	m.metrics.Drawings.Add(float64(n))
}

func (m *Monitor) RecordJackpot() {
	m.metrics.Jackpots.Inc()
}

func (m *Monitor) ObserveTickDuration(d time.Duration) {
	m.metrics.TickDuration.Observe(d.Seconds())
}
