package commands

import (
	"os"
	"path/filepath"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/pkg/config"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	return logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// GetDefaultStateDir returns the default state directory path.
func GetDefaultStateDir() string {
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, "casterd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "casterd")
	}
	return filepath.Join(home, ".local", "state", "casterd")
}

// GetDefaultPidFile returns the default PID file path.
func GetDefaultPidFile() string {
	return filepath.Join(GetDefaultStateDir(), "casterd.pid")
}
