package sourcetable

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/pkg/metrics"
)

// Reloader keeps a *Sourcetable in sync with sourcetable.dat on disk,
// rehashing on an mtime-triggered interval and on fsnotify write events.
// Unlike the mount authentication database,
// no documented lock spans a sourcetable read; an atomic pointer swap gives
// readers a consistent snapshot without blocking on reload.
type Reloader struct {
	path     string
	interval time.Duration
	metrics  metrics.CasterMetrics

	current   atomic.Pointer[Sourcetable]
	lastMtime time.Time
}

// NewReloader returns a Reloader for path. Current returns nil until the
// first successful Reload. metricsImpl may be a nil-but-typed
// metrics.CasterMetrics (see pkg/metrics/prometheus) when metrics are
// disabled.
func NewReloader(path string, interval time.Duration, metricsImpl metrics.CasterMetrics) *Reloader {
	return &Reloader{path: path, interval: interval, metrics: metricsImpl}
}

// Current returns the most recently loaded sourcetable, or nil if the file
// has never been successfully read.
func (r *Reloader) Current() *Sourcetable {
	return r.current.Load()
}

// Reload re-reads and re-parses the sourcetable file. A missing or
// unreadable file logs a warning and leaves the previous snapshot in place.
func (r *Reloader) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		logger.Warn("sourcetable file unreadable, retaining previous snapshot",
			"path", r.path, "error", err)
		r.metrics.RecordReload("sourcetable", false)
		return err
	}

	r.current.Store(Parse(data))

	if info, err := os.Stat(r.path); err == nil {
		r.lastMtime = info.ModTime()
	}
	r.metrics.RecordReload("sourcetable", true)
	return nil
}

func (r *Reloader) checkMtime() {
	info, err := os.Stat(r.path)
	if err != nil {
		return
	}
	if !info.ModTime().After(r.lastMtime) {
		return
	}
	_ = r.Reload()
}

// Run performs an initial load (a missing file is not fatal; Current simply
// stays nil) and then rehashes on the configured interval and on fsnotify
// write events, until ctx is canceled.
func (r *Reloader) Run(ctx context.Context) error {
	_ = r.Reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("sourcetable file watcher unavailable, falling back to polling only", "error", err)
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(r.path)); err != nil {
			logger.Warn("failed to watch sourcetable directory", "error", err)
		}
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	if watcher != nil {
		events = watcher.Events
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.checkMtime()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == filepath.Clean(r.path) {
				r.checkMtime()
			}
		}
	}
}
