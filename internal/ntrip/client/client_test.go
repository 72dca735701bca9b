package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientStartsVirginAndAlive(t *testing.T) {
	c := New(1, "/MOUNT1")
	require.True(t, c.Alive())
	require.True(t, c.IsVirgin())
	require.Equal(t, TypeUnknown, c.Type)
}

func TestMarkGreetedClearsVirgin(t *testing.T) {
	c := New(1, "/MOUNT1")
	c.MarkGreeted()
	require.False(t, c.IsVirgin())
}

func TestKillIsIdempotent(t *testing.T) {
	c := New(1, "/MOUNT1")
	c.Kill()
	c.Kill()
	require.False(t, c.Alive())
}

func TestByteAndErrorCounters(t *testing.T) {
	c := New(1, "/MOUNT1")
	c.AddBytesWritten(100)
	c.AddBytesWritten(50)
	require.Equal(t, uint64(150), c.BytesWritten())

	c.RecordWriteError()
	require.Equal(t, uint64(1), c.WriteErrors())
}

func TestTypeStringValues(t *testing.T) {
	require.Equal(t, "listener", TypeListener.String())
	require.Equal(t, "pulling_client", TypePullingClient.String())
	require.Equal(t, "pusher", TypePusher.String())
	require.Equal(t, "unknown listener", TypeUnknownListener.String())
	require.Equal(t, "unknown", TypeUnknown.String())
}
