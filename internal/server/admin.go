// Package server implements the two halves of the running caster process:
// the TCP accept loop that dispatches connections through C1-C5, and the
// read-only admin HTTP surface (/healthz, /metrics, /stats,
// /sourcetable.html) that are excluded from being a web UI
// for managing mounts or sources.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/internal/ntrip/source"
	"github.com/ntripcaster/caster/internal/ntrip/sourcetable"
	"github.com/ntripcaster/caster/internal/ntrip/stats"
)

// AdminConfig carries the identity fields the admin surface reports
// alongside live state.
type AdminConfig struct {
	Port         int
	ServerName   string
	Version      string
	NtripVersion string
}

// AdminServer exposes read-only observability over HTTP: health, Prometheus
// metrics, a JSON stats snapshot, and an HTML sourcetable view.
type AdminServer struct {
	httpServer *http.Server
	config     AdminConfig
	registry   *source.Registry
	stats      *stats.Stats
	sourcetbl  *sourcetable.Reloader
	startedAt  time.Time

	shutdownOnce sync.Once
}

// NewAdminServer wires the admin mux. metricsRegistry may be nil when
// metrics are disabled, in which case /metrics responds 404.
func NewAdminServer(
	cfg AdminConfig,
	registry *source.Registry,
	st *stats.Stats,
	sourcetableReloader *sourcetable.Reloader,
	metricsRegistry *prometheus.Registry,
) *AdminServer {
	a := &AdminServer{
		config:    cfg,
		registry:  registry,
		stats:     st,
		sourcetbl: sourcetableReloader,
		startedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", a.handleHealthz)
	r.Get("/stats", a.handleStats)
	r.Get("/sourcetable.html", a.handleSourcetableHTML)
	if metricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a
}

// Start serves the admin mux until ctx is canceled, then shuts down
// gracefully.
func (a *AdminServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin HTTP server listening", "port", a.config.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.Stop(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("admin server failed: %w", err)
	}
}

// Stop gracefully shuts the admin server down; safe to call multiple times.
func (a *AdminServer) Stop(ctx context.Context) error {
	var err error
	a.shutdownOnce.Do(func() {
		err = a.httpServer.Shutdown(ctx)
	})
	return err
}

func (a *AdminServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"server_name": a.config.ServerName,
		"uptime":      time.Since(a.startedAt).String(),
	})
}

func (a *AdminServer) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := a.stats.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"num_clients":            snap.NumClients,
		"max_clients":            snap.MaxClients,
		"max_clients_per_source": snap.MaxClientsPerSource,
		"client_connections":     snap.ClientConnections,
		"client_disconnections":  snap.ClientDisconnections,
		"source_connections":     snap.SourceConnections,
		"sources":                a.registry.Snapshot(),
		"uptime":                 time.Since(a.startedAt).String(),
		"version":                a.config.Version,
		"ntrip_version":          a.config.NtripVersion,
	})
}

func (a *AdminServer) handleSourcetableHTML(w http.ResponseWriter, r *http.Request) {
	var st *sourcetable.Sourcetable
	if a.sourcetbl != nil {
		st = a.sourcetbl.Current()
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(sourcetable.RenderHTML(st, sourcetable.PageInfo{
		ServerName: a.config.ServerName,
		Port:       a.config.Port,
		Version:    a.config.Version,
		Now:        time.Now(),
	})))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("admin request completed",
			"request_id", requestID, "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start).String())
	})
}
