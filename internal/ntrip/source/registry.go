package source

import (
	"sync"

	"github.com/ntripcaster/caster/internal/ntrip/client"
)

// Registry is the live mountpoint -> Source index. Its mutex is the "source
// lock": it guards both the registry map and each source's
// num_clients, and the router acquires it after the double lock and
// releases it before the double lock, per the fixed lock ordering.
type Registry struct {
	mu      sync.Mutex
	sources map[string]*Source
}

// NewRegistry returns an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*Source)}
}

// Lock acquires the source lock. Callers performing a cap-check-then-attach
// sequence must hold it across the whole sequence; use
// LookupLocked and AttachLocked while holding it.
func (r *Registry) Lock() { r.mu.Lock() }

// Unlock releases the source lock.
func (r *Registry) Unlock() { r.mu.Unlock() }

// Register installs a new live source for mountpoint, replacing any
// previous source at that path. Takes the source lock itself.
func (r *Registry) Register(mountpoint string) *Source {
	s := newSource(mountpoint)
	r.mu.Lock()
	r.sources[mountpoint] = s
	r.mu.Unlock()
	return s
}

// Unregister removes a source from the registry. Takes the source lock
// itself.
func (r *Registry) Unregister(mountpoint string) {
	r.mu.Lock()
	delete(r.sources, mountpoint)
	r.mu.Unlock()
}

// Lookup finds the live source for an exact path match ("exact
// case-sensitive match on the whole path; no prefix, glob, or trailing-slash
// normalization"). Takes the source lock for the duration of the read.
func (r *Registry) Lookup(path string) (*Source, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(path)
}

// LookupLocked is Lookup without acquiring the lock; the caller must already
// hold it (via Lock).
func (r *Registry) LookupLocked(path string) (*Source, bool) {
	return r.lookupLocked(path)
}

func (r *Registry) lookupLocked(path string) (*Source, bool) {
	s, ok := r.sources[path]
	return s, ok
}

// AttachLocked attaches c to src as a listener and returns its delivery
// channel. The caller must already hold the source lock; this is the single
// point where num_clients is incremented, keeping the CAPS check and the
// increment inside one critical section ("All cap checks must
// occur while holding the source lock so that two racing admissions cannot
// both observe num_clients == max - 1 and both succeed").
func (r *Registry) AttachLocked(src *Source, c *client.Client) chan []byte {
	return src.attach(c)
}

// Detach removes c from src, decrementing num_clients. Takes the source
// lock itself; called from connection teardown, outside the admission
// critical section.
func (r *Registry) Detach(src *Source, c *client.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src.detach(c)
}

// Count reports the number of currently registered sources.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}

// Snapshot returns mountpoint -> listener count for every registered source,
// for the admin /stats endpoint.
func (r *Registry) Snapshot() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.sources))
	for mount, s := range r.sources {
		out[mount] = s.NumClients()
	}
	return out
}
