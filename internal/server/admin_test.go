package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ntripcaster/caster/internal/ntrip/source"
	"github.com/ntripcaster/caster/internal/ntrip/sourcetable"
	"github.com/ntripcaster/caster/internal/ntrip/stats"
	promMetrics "github.com/ntripcaster/caster/pkg/metrics/prometheus"
)

func newTestAdmin(t *testing.T) *AdminServer {
	t.Helper()
	registry := source.NewRegistry()
	registry.Register("/MOUNT1")
	st := stats.New(10, 5)
	reloader := sourcetable.NewReloader(filepath.Join(t.TempDir(), "missing.dat"), time.Hour, (*promMetrics.Metrics)(nil))

	return NewAdminServer(AdminConfig{Port: 0, ServerName: "Test Caster", Version: "dev", NtripVersion: "2.0"},
		registry, st, reloader, nil)
}

func TestHealthzReturnsOK(t *testing.T) {
	a := newTestAdmin(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	a.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Test Caster")
}

func TestStatsReportsSourceSnapshot(t *testing.T) {
	a := newTestAdmin(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	a.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "/MOUNT1")
}

func TestSourcetableHTMLServesFallbackWhenMissing(t *testing.T) {
	a := newTestAdmin(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sourcetable.html", nil)
	a.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rr.Body.String(), "NO SOURCETABLE AVAILABLE")
}

func TestMetricsDisabledWhenRegistryNil(t *testing.T) {
	a := newTestAdmin(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	a.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
