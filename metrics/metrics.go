package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry of the engine
	Registry = prometheus.NewRegistry()

	// Solves counts finished solves by outcome status
	Solves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrptw_solves_total", Help: "Finished solves by status."},
		[]string{"status"},
	)
	// SolveSeconds records the wall time of a solve, model building included
	SolveSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vrptw_solve_duration_seconds", Help: "Solve duration in seconds.", Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600}},
		[]string{"status"},
	)
	// ModelSize tracks the number of variables and constraints of built models
	ModelSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vrptw_model_size", Help: "Variables and constraints per built model.", Buckets: prometheus.ExponentialBuckets(10, 4, 8)},
		[]string{"kind"},
	)
	// Requests counts dispatched requests by kind and result
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrptw_requests_total", Help: "Dispatched requests by kind and result."},
		[]string{"kind", "result"},
	)
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)
)

// RegisterDefault registers the collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Solves)
		Registry.MustRegister(SolveSeconds)
		Registry.MustRegister(ModelSize)
		Registry.MustRegister(Requests)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// ObserveSolve records one finished solve.
func ObserveSolve(status string, seconds float64) {
	Solves.WithLabelValues(status).Inc()
	SolveSeconds.WithLabelValues(status).Observe(seconds)
}

// ObserveModel records the size of a built model.
func ObserveModel(variables, constraints int) {
	ModelSize.WithLabelValues("variables").Observe(float64(variables))
	ModelSize.WithLabelValues("constraints").Observe(float64(constraints))
}
