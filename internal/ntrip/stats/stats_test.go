package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryAdmitGlobalRespectsCap(t *testing.T) {
	s := New(2, 1)

	require.True(t, s.TryAdmitGlobal())
	require.True(t, s.TryAdmitGlobal())
	require.False(t, s.TryAdmitGlobal(), "a third admission must be rejected once max_clients is reached")
	require.Equal(t, 2, s.NumClients())
}

func TestReleaseGlobalUndoesAdmission(t *testing.T) {
	s := New(1, 1)
	require.True(t, s.TryAdmitGlobal())
	require.False(t, s.TryAdmitGlobal())

	s.ReleaseGlobal()
	require.True(t, s.TryAdmitGlobal())
}

func TestRecordConnectionAndDisconnection(t *testing.T) {
	s := New(5, 5)
	require.True(t, s.TryAdmitGlobal())
	s.RecordConnection()

	snap := s.Snapshot()
	require.Equal(t, 1, snap.NumClients)
	require.Equal(t, uint64(1), snap.ClientConnections)

	s.RecordDisconnection()
	snap = s.Snapshot()
	require.Equal(t, 0, snap.NumClients)
	require.Equal(t, uint64(1), snap.ClientDisconnections)
}

func TestRecordSourceConnection(t *testing.T) {
	s := New(10, 5)
	s.RecordSourceConnection()
	s.RecordSourceConnection()
	require.Equal(t, uint64(2), s.Snapshot().SourceConnections)
}
