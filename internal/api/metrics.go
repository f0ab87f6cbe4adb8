package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the occurrence endpoint.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups       *prometheus.CounterVec
	simulations        *prometheus.CounterVec
	simulatedDays      prometheus.Counter
	simulationDuration prometheus.Histogram
}

// NewMetrics creates and registers the metrics with registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perpetual_cache_lookups_total",
			Help: "Run cache lookups by result (hit or miss)",
		}, []string{"result"}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perpetual_simulations_total",
			Help: "Simulations run by outcome (ok, cancelled or error)",
		}, []string{"outcome"}),
		simulatedDays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perpetual_simulated_days_total",
			Help: "Days stepped through by completed simulations",
		}),
		simulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "perpetual_simulation_duration_seconds",
			Help:    "Wall time of completed simulations",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	registry.MustRegister(
		m.cacheLookups,
		m.simulations,
		m.simulatedDays,
		m.simulationDuration,
	)

	return m
}

// CacheHit counts a query answered from the run cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a query that had to be simulated.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// SimulationDone records a completed simulation.
func (m *Metrics) SimulationDone(days int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues("ok").Inc()
	m.simulatedDays.Add(float64(days))
	m.simulationDuration.Observe(elapsed.Seconds())
}

// SimulationCancelled counts a simulation abandoned with its request.
func (m *Metrics) SimulationCancelled() {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues("cancelled").Inc()
}

// SimulationFailed counts a simulation that returned an error.
func (m *Metrics) SimulationFailed() {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues("error").Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
