// Package stats implements the process-wide counters the caster calls
// "Global state": num_clients against max_clients, and the hourly_stats
// counters, guarded per the design notes ("guard shared counters
// with either a mutex or atomic operations, for simple monotonic counters").
package stats

import (
	"sync"
	"sync/atomic"
)

// Stats holds the admission caps and the counters the misc lock guards.
// num_clients is an atomic counter (incremented on admission under a
// compare-and-swap, decremented on release and disconnect) so the router can enforce it while already holding the
// source lock without ever nesting the misc lock inside it (the rule:
// "incremented under the misc lock immediately after release, never under
// the source lock"); the misc mutex below guards only the hourly_stats
// bookkeeping counters, which are not part of any cap check.
type Stats struct {
	maxClients          int
	maxClientsPerSource int

	numClients atomic.Int64

	// mu is the misc lock: guards hourly_stats only.
	mu                   sync.Mutex
	clientConnections    uint64
	sourceConnections    uint64
	clientDisconnections uint64
}

// New returns a Stats with the given admission caps and all counters zeroed.
func New(maxClients, maxClientsPerSource int) *Stats {
	return &Stats{maxClients: maxClients, maxClientsPerSource: maxClientsPerSource}
}

// MaxClients is the configured global admission cap.
func (s *Stats) MaxClients() int { return s.maxClients }

// MaxClientsPerSource is the configured per-source admission cap.
func (s *Stats) MaxClientsPerSource() int { return s.maxClientsPerSource }

// NumClients reports the current global client count.
func (s *Stats) NumClients() int { return int(s.numClients.Load()) }

// TryAdmitGlobal atomically checks num_clients < max_clients and, if so,
// increments it, returning whether admission succeeded. Safe to call while
// holding the source lock (the rule is: "All cap checks must occur
// while holding the source lock so that two racing admissions cannot both
// observe num_clients == max - 1 and both succeed").
func (s *Stats) TryAdmitGlobal() bool {
	for {
		cur := s.numClients.Load()
		if int(cur) >= s.maxClients {
			return false
		}
		if s.numClients.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// ReleaseGlobal reverses a successful TryAdmitGlobal, e.g. when the
// per-source cap subsequently fails.
func (s *Stats) ReleaseGlobal() { s.numClients.Add(-1) }

// RecordConnection increments hourly_stats.client_connections. Takes the
// misc lock itself, which is held independently of the source lock and
// never alongside it.
func (s *Stats) RecordConnection() {
	s.mu.Lock()
	s.clientConnections++
	s.mu.Unlock()
}

// RecordDisconnection increments hourly_stats.client_disconnections and
// releases one unit of the global client counter.
func (s *Stats) RecordDisconnection() {
	s.numClients.Add(-1)
	s.mu.Lock()
	s.clientDisconnections++
	s.mu.Unlock()
}

// RecordSourceConnection increments hourly_stats.source_connections.
func (s *Stats) RecordSourceConnection() {
	s.mu.Lock()
	s.sourceConnections++
	s.mu.Unlock()
}

// Snapshot is a point-in-time, lock-free-for-the-caller copy of the
// counters for admin/metrics reporting.
type Snapshot struct {
	NumClients           int
	MaxClients           int
	MaxClientsPerSource  int
	ClientConnections    uint64
	SourceConnections    uint64
	ClientDisconnections uint64
}

// Snapshot takes the misc lock briefly to copy out a consistent view of the
// hourly_stats counters alongside the atomically-read client count.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		NumClients:           s.NumClients(),
		MaxClients:           s.maxClients,
		MaxClientsPerSource:  s.maxClientsPerSource,
		ClientConnections:    s.clientConnections,
		SourceConnections:    s.sourceConnections,
		ClientDisconnections: s.clientDisconnections,
	}
}
