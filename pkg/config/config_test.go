package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	require.Equal(t, []int{2101}, cfg.Server.Ports)
	require.Equal(t, 500, cfg.Server.MaxClients)
}

func TestValidateRejectsPerSourceExceedingTotal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.MaxClientsPerSource = cfg.Server.MaxClients + 1
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsDuplicatePorts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Ports = []int{2101, 2101}
	require.Error(t, Validate(cfg))
}

func TestLoadWritesAndReadsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.ServerName = "Test Caster"
	cfg.Auth.RehashInterval = 45 * time.Second
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Test Caster", loaded.Server.ServerName)
	require.Equal(t, 45*time.Second, loaded.Auth.RehashInterval)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}
