package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/pkg/metrics"
)

// Reloader keeps a Store in sync with the mount authentication file on
// disk, rehashing on a periodic mtime check in addition to an fsnotify
// watch so an edit is picked up promptly instead of only at the next tick.
type Reloader struct {
	path     string
	store    *Store
	interval time.Duration
	metrics  metrics.CasterMetrics

	lastMtime time.Time
}

// NewReloader returns a Reloader for path, performing no I/O yet. metricsImpl
// may be a nil-but-typed metrics.CasterMetrics (see pkg/metrics/prometheus)
// when metrics are disabled.
func NewReloader(path string, store *Store, interval time.Duration, metricsImpl metrics.CasterMetrics) *Reloader {
	return &Reloader{path: path, store: store, interval: interval, metrics: metricsImpl}
}

// Reload re-parses the mount file and installs the result under the
// authentication lock. A missing or unreadable file logs a warning and
// leaves the previously installed ACLs in place.
func (r *Reloader) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		logger.Warn("auth file unreadable, retaining previous ACLs",
			"path", r.path, "error", err)
		r.metrics.RecordReload("auth", false)
		return fmt.Errorf("read auth file: %w", err)
	}

	users, mounts, duplicates := Parse(data)
	for _, path := range duplicates {
		logger.Warn("duplicate mountpoint in auth file, later definition wins",
			logger.KeyMount, path)
	}

	r.store.Install(users, mounts)

	if info, err := os.Stat(r.path); err == nil {
		r.lastMtime = info.ModTime()
	}

	r.metrics.RecordReload("auth", true)
	logger.Info("authentication database reloaded",
		"mounts", mounts.Len(), "users", users.Len())
	return nil
}

// checkMtime reloads only if the file's mtime has advanced since the last
// successful reload.
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

// Run performs an initial load and then rehashes on the configured interval
// and on fsnotify write events for the file, until ctx is canceled. A failed
// initial load is not fatal — every mount is public until the file appears
// and the next tick picks it up.
func (r *Reloader) Run(ctx context.Context) error {
	_ = r.Reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("auth file watcher unavailable, falling back to polling only", "error", err)
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(r.path)); err != nil {
			logger.Warn("failed to watch auth file directory", "error", err)
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
