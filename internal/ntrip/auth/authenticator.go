package auth

import (
	"sync"

	"github.com/ntripcaster/caster/internal/ntrip/request"
)

// DenialReason names why authorize denied a request.
type DenialReason string

const (
	ReasonMissingCredentials DenialReason = "missing_credentials"
	ReasonBadCredentials     DenialReason = "bad_credentials"
)

// Result is the outcome of an authorize call.
type Result struct {
	Authorized bool
	Reason     DenialReason
}

// Store holds the User and Mount ACL stores as a single unit that is
// replaced wholesale on reload.
type Store struct {
	// mu is the authentication lock: held for the duration of any ACL read
	// or ACL rebuild, independent of the double/source/misc locks and
	// never held alongside them.
	mu     sync.Mutex
	users  *Users
	mounts *Mounts
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{users: NewUsers(), mounts: NewMounts()}
}

// swap installs a freshly parsed (users, mounts) pair as the current state,
// releasing the previous one. It does not take mu itself: Install calls it
// with mu held, and the package's tests call it directly on a Store no
// other goroutine is using.
func (s *Store) swap(users *Users, mounts *Mounts) {
	s.users = users
	s.mounts = mounts
}

// Install replaces the store's users and mounts as a single unit under the
// authentication lock. Exported for callers that build a Store outside of
// Reloader.Reload, e.g. tests and one-shot non-file-backed setups.
func (s *Store) Install(users *Users, mounts *Mounts) {
	s.mu.Lock()
	s.swap(users, mounts)
	s.mu.Unlock()
}

// Mounts returns a snapshot of the current mount paths, for admin/listing
// use; it takes the authentication lock for the duration of the read.
func (s *Store) Mounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounts.Paths()
}

// Authenticator implements C4: authorize(request) -> Authorized | Denied(reason).
type Authenticator struct {
	store *Store
}

// NewAuthenticator wraps store with the authorize algorithm.
func NewAuthenticator(store *Store) *Authenticator {
	return &Authenticator{store: store}
}

// Authorize looks up the mount, then checks credentials against it, under
// the authentication lock for the entire mount lookup.
func (a *Authenticator) Authorize(req *request.Request) Result {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	mount, ok := a.store.mounts.Get(req.Path)
	if !ok {
		// Mountpoints without an ACL are public.
		return Result{Authorized: true}
	}

	if req.Credentials == nil {
		return Result{Authorized: false, Reason: ReasonMissingCredentials}
	}

	user, ok := mount.User(req.Credentials.Name)
	if !ok || user.Password != req.Credentials.Password {
		return Result{Authorized: false, Reason: ReasonBadCredentials}
	}

	req.User = user.Name
	return Result{Authorized: true}
}
