package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntripcaster/caster/internal/ntrip/request"
	promMetrics "github.com/ntripcaster/caster/pkg/metrics/prometheus"
)

const sampleFile = `
# comment lines and blanks are ignored
/MOUNT1:alice:secret,bob:hunter2
/MOUNT2:alice:secret
not-a-mount-line
/MOUNT1:alice:newsecret
`

func TestParseBuildsUsersAndMountsWithDedup(t *testing.T) {
	users, mounts, duplicates := Parse([]byte(sampleFile))

	require.Equal(t, []string{"/MOUNT1"}, duplicates)
	require.Equal(t, 2, mounts.Len())

	alice, ok := users.Get("alice")
	require.True(t, ok)
	require.Equal(t, "newsecret", alice.Password, "later definition of a duplicate mountpoint wins")

	mount1, ok := mounts.Get("/MOUNT1")
	require.True(t, ok)
	require.Equal(t, 1, mount1.UserCount(), "the replaced /MOUNT1 definition only lists alice")

	mount2, ok := mounts.Get("/MOUNT2")
	require.True(t, ok)
	u, ok := mount2.User("alice")
	require.True(t, ok)
	require.Equal(t, "secret", u.Password)
}

func TestAuthorizePublicMountWithNoACL(t *testing.T) {
	store := NewStore()
	a := NewAuthenticator(store)

	req := &request.Request{Path: "/PUBLIC"}
	result := a.Authorize(req)
	require.True(t, result.Authorized)
}

func TestAuthorizeMissingCredentials(t *testing.T) {
	store := NewStore()
	users, mounts, _ := Parse([]byte("/MOUNT1:alice:secret\n"))
	store.swap(users, mounts)

	a := NewAuthenticator(store)
	req := &request.Request{Path: "/MOUNT1"}
	result := a.Authorize(req)
	require.False(t, result.Authorized)
	require.Equal(t, ReasonMissingCredentials, result.Reason)
}

func TestAuthorizeCorrectAndWrongCredentials(t *testing.T) {
	store := NewStore()
	users, mounts, _ := Parse([]byte("/MOUNT1:alice:secret\n"))
	store.swap(users, mounts)
	a := NewAuthenticator(store)

	ok := &request.Request{Path: "/MOUNT1", Credentials: &request.Credentials{Name: "alice", Password: "secret"}}
	result := a.Authorize(ok)
	require.True(t, result.Authorized)
	require.Equal(t, "alice", ok.User)

	bad := &request.Request{Path: "/MOUNT1", Credentials: &request.Credentials{Name: "alice", Password: "wrong"}}
	result = a.Authorize(bad)
	require.False(t, result.Authorized)
	require.Equal(t, ReasonBadCredentials, result.Reason)
}

func TestReloaderPicksUpFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mount.auth")
	require.NoError(t, os.WriteFile(path, []byte("/MOUNT1:alice:secret\n"), 0644))

	store := NewStore()
	r := NewReloader(path, store, 0, (*promMetrics.Metrics)(nil))
	require.NoError(t, r.Reload())

	a := NewAuthenticator(store)
	req := &request.Request{Path: "/MOUNT1", Credentials: &request.Credentials{Name: "alice", Password: "secret"}}
	require.True(t, a.Authorize(req).Authorized)

	require.NoError(t, os.WriteFile(path, []byte("/MOUNT1:alice:different\n"), 0644))
	require.NoError(t, r.Reload())

	req2 := &request.Request{Path: "/MOUNT1", Credentials: &request.Credentials{Name: "alice", Password: "secret"}}
	require.False(t, a.Authorize(req2).Authorized)
}

func TestReloadMissingFileKeepsPreviousACLs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mount.auth")
	require.NoError(t, os.WriteFile(path, []byte("/MOUNT1:alice:secret\n"), 0644))

	store := NewStore()
	r := NewReloader(path, store, 0, (*promMetrics.Metrics)(nil))
	require.NoError(t, r.Reload())

	require.NoError(t, os.Remove(path))
	require.Error(t, r.Reload())

	a := NewAuthenticator(store)
	req := &request.Request{Path: "/MOUNT1", Credentials: &request.Credentials{Name: "alice", Password: "secret"}}
	require.True(t, a.Authorize(req).Authorized, "a failed reload must retain the previously installed ACLs")
}
