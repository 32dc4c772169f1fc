package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lazharichir/holdem/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the server's collectors on a private registry so that
// several servers can live in one process.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	rejected  *prometheus.CounterVec
	events    *prometheus.CounterVec
}

func newMetrics(rooms, players, connections func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
		}, []string{"route"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commands_rejected_total",
			Help: "Commands refused by a room, by error kind.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "room_events_total",
			Help: "Events emitted by rooms, by event name.",
		}, []string{"name"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.durations,
		m.rejected,
		m.events,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: "rooms_total", Help: "Live rooms."}, rooms),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: "players_total", Help: "Players seated in live rooms."}, players),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: "websocket_connections", Help: "Open websocket connections."}, connections),
	)
	return m
}

func (m *Metrics) handleEvent(_ string, ev events.Event) {
	m.events.WithLabelValues(ev.Name()).Inc()
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts and times every request to route. Long-polls are
// timed too, so their latency reflects the wait.
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.durations.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
