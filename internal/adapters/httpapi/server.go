// Package httpapi is the REST/JSON binding of the task service, plus the
// health and metrics endpoints served alongside it.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/upkeep/internal/metrics"
	"github.com/example/upkeep/internal/ports/primary"
)

// DBPinger is the health-check view of the database.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Server wires the task service into HTTP handlers.
type Server struct {
	svc     primary.TaskService
	db      DBPinger
	log     *slog.Logger
	metrics *metrics.Metrics
	reg     *prometheus.Registry
}

// NewServer creates a new Server.
func NewServer(svc primary.TaskService, db DBPinger, log *slog.Logger, m *metrics.Metrics, reg *prometheus.Registry) *Server {
	return &Server{svc: svc, db: db, log: log, metrics: m, reg: reg}
}

// Handler builds the route table. Every /api route goes through the
// request-logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.handleCompleteTask)
	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("GET /api/report", s.handleReport)

	mux.Handle("GET /healthz", &HealthChecker{db: s.db, log: s.log})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	return s.withRequestLog(mux)
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.log.InfoContext(ctx, "starting HTTP server", "addr", addr)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.InfoContext(ctx, "HTTP server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.ErrorContext(ctx, "HTTP server failed to shutdown", "error", err)
			return err
		}
		return nil
	case err := <-serverErr:
		s.log.ErrorContext(ctx, "HTTP server failed", "error", err)
		return err
	}
}

// HealthChecker reports readiness based on a database ping.
type HealthChecker struct {
	db  DBPinger
	log *slog.Logger
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	status := map[string]string{"database": "ok"}
	code := http.StatusOK

	if err := h.db.PingContext(req.Context()); err != nil {
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "health check failed: DB ping", "error", err)
	}

	writeJSON(writer, code, status)
}
