package mounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendCredentialCreatesNewMountLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mount.auth")

	require.NoError(t, appendCredential(path, "/MOUNT1", "alice", "secret"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/MOUNT1:alice:secret\n", string(data))
}

func TestAppendCredentialAddsToExistingMountLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mount.auth")
	require.NoError(t, os.WriteFile(path, []byte("/MOUNT1:alice:secret\n"), 0600))

	require.NoError(t, appendCredential(path, "/MOUNT1", "bob", "hunter2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/MOUNT1:alice:secret,bob:hunter2\n", string(data))
}

func TestRemoveUserFromLineDropsOnlyThatUser(t *testing.T) {
	rewritten, ok := removeUserFromLine("/MOUNT1:alice:secret,bob:hunter2", "bob")
	require.True(t, ok)
	require.Equal(t, "/MOUNT1:alice:secret", rewritten)
}

func TestRemoveUserFromLineDropsWholeLineWhenLastUser(t *testing.T) {
	rewritten, ok := removeUserFromLine("/MOUNT1:alice:secret", "alice")
	require.True(t, ok)
	require.Equal(t, "", rewritten)
}

func TestRemoveUserFromLineMissingUserIsNoop(t *testing.T) {
	rewritten, ok := removeUserFromLine("/MOUNT1:alice:secret", "nobody")
	require.False(t, ok)
	require.Equal(t, "/MOUNT1:alice:secret", rewritten)
}
