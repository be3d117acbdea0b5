package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MarcoClaps/vrptw"
	"github.com/MarcoClaps/vrptw/metrics"
	"github.com/MarcoClaps/vrptw/store"
)

type Server struct {
	Engine *vrptw.Engine
	// Store archives instances and solutions. Optional.
	Store store.Store
}

func NewServer(engine *vrptw.Engine, st store.Store) *Server {
	return &Server{Engine: engine, Store: st}
}

// Routes returns the handler serving every endpoint, wrapped in the logging
// and metrics middleware.
func (s *Server) Routes() http.Handler {
	metrics.RegisterDefault()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/generate", s.GenerateHandler)
	mux.HandleFunc("POST /v1/solve", s.SolveHandler)
	mux.HandleFunc("POST /v1/summarize", s.SummarizeHandler)
	mux.HandleFunc("POST /v1/visualize", s.VisualizeHandler)
	mux.HandleFunc("POST /v1/stats", s.StatsHandler)
	mux.HandleFunc("POST /v1/describe", s.DescribeHandler)
	mux.HandleFunc("GET /v1/instances/{id}", s.InstanceHandler)
	mux.HandleFunc("GET /v1/instances/{id}/solutions", s.InstanceSolutionsHandler)
	mux.HandleFunc("GET /v1/solutions/{id}", s.SolutionHandler)
	mux.HandleFunc("GET /healthz", s.HealthHandler)
	mux.HandleFunc("GET /readyz", s.ReadyHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return logMiddleware(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(start)
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		code := strconv.Itoa(rec.status)
		metrics.HTTPRequests.WithLabelValues(r.Method, path, code).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path, code).Observe(dur.Seconds())
		vrptw.Log(2, "%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, rec.status, dur)
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using the Postgres store
	type pinger interface {
		Ping(ctx context.Context) error
	}
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
