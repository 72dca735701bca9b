package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntripcaster/caster/internal/ntrip/client"
)

func TestRegisterLookupUnregister(t *testing.T) {
	r := NewRegistry()
	s := r.Register("/MOUNT1")
	require.Equal(t, "/MOUNT1", s.Mountpoint())

	found, ok := r.Lookup("/MOUNT1")
	require.True(t, ok)
	require.Same(t, s, found)

	_, ok = r.Lookup("/mount1")
	require.False(t, ok, "lookup is exact-case")

	r.Unregister("/MOUNT1")
	_, ok = r.Lookup("/MOUNT1")
	require.False(t, ok)
}

func TestAttachIncrementsNumClientsUnderLock(t *testing.T) {
	r := NewRegistry()
	s := r.Register("/MOUNT1")
	c := client.New(1, "/MOUNT1")

	r.Lock()
	require.Equal(t, 0, s.NumClients())
	r.AttachLocked(s, c)
	require.Equal(t, 1, s.NumClients())
	r.Unlock()

	r.Detach(s, c)
	require.Equal(t, 0, s.NumClients())
}

func TestPublishDeliversToAttachedListeners(t *testing.T) {
	r := NewRegistry()
	s := r.Register("/MOUNT1")
	c := client.New(1, "/MOUNT1")

	r.Lock()
	ch := r.AttachLocked(s, c)
	r.Unlock()

	s.Publish([]byte("RTCM chunk"))
	select {
	case got := <-ch:
		require.Equal(t, "RTCM chunk", string(got))
	default:
		t.Fatal("expected chunk to be delivered")
	}
}

func TestSnapshotReportsPerMountListenerCounts(t *testing.T) {
	r := NewRegistry()
	s := r.Register("/MOUNT1")
	c := client.New(1, "/MOUNT1")
	r.Lock()
	r.AttachLocked(s, c)
	r.Unlock()

	snap := r.Snapshot()
	require.Equal(t, 1, snap["/MOUNT1"])
}
