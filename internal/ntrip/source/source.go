// Package source implements the Source handle contract
// as an external collaborator, plus the minimal in-memory registry and
// broadcaster needed to exercise the router (C5) against a real byte
// stream. Fan-out uses one buffered channel per listener; there is no
// shared ring buffer, and Client.Offset is not used here. This broadcaster
// is outside the core's admission scope; it is grounded on channel-fed
// listener loops seen in other NTRIP casters, not on the hard engineering
// this core actually specifies.
package source

import (
	"sync"

	"github.com/ntripcaster/caster/internal/ntrip/client"
)

// listenerBuffer is the per-listener outbound channel depth. Chunks for a
// slow listener that falls this far behind are dropped rather than stalling
// the source; the listener itself stays attached.
const listenerBuffer = 64

// Source is a live mountpoint: a base station's stream, fanned out to every
// attached listener. The router (C5) treats it opaquely, touching only
// Mountpoint and NumClients.
type Source struct {
	mountpoint string

	// numClients is guarded by the Registry's source lock (the rule:
	// "source lock: guards the source registry and each source's
	// num_clients"), never by a lock local to Source.
	numClients int

	listenersMu sync.Mutex
	listeners   map[int64]chan []byte
}

func newSource(mountpoint string) *Source {
	return &Source{
		mountpoint: mountpoint,
		listeners:  make(map[int64]chan []byte),
	}
}

// Mountpoint returns the path this source is registered under.
func (s *Source) Mountpoint() string { return s.mountpoint }

// NumClients reports the current listener count. Callers that need a
// consistent read-then-act must hold the owning Registry's lock.
func (s *Source) NumClients() int { return s.numClients }

// attach registers c's delivery channel. Must be called while the owning
// Registry's source lock is held (the router's CAPS -> ATTACHED transition
// does this as part of a single critical section).
func (s *Source) attach(c *client.Client) chan []byte {
	ch := make(chan []byte, listenerBuffer)
	s.listenersMu.Lock()
	s.listeners[c.CID] = ch
	s.listenersMu.Unlock()
	s.numClients++
	return ch
}

// detach removes c's delivery channel. Must be called while the owning
// Registry's source lock is held.
func (s *Source) detach(c *client.Client) {
	s.listenersMu.Lock()
	ch, ok := s.listeners[c.CID]
	if ok {
		delete(s.listeners, c.CID)
		close(ch)
	}
	s.listenersMu.Unlock()
	if ok {
		s.numClients--
	}
}

// Publish fans a chunk of correction bytes out to every attached listener.
// A listener whose channel is full is skipped for this chunk rather than
// blocking the source (the broadcaster favors freshness over completeness
// for a backed-up listener). A skipped chunk is not counted anywhere; the
// listener's write-error counter only moves when a write to its connection
// fails.
func (s *Source) Publish(chunk []byte) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	for _, ch := range s.listeners {
		select {
		case ch <- chunk:
		default:
		}
	}
}
