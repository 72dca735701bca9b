package mounts

import (
	"fmt"

	"github.com/ntripcaster/caster/pkg/config"
)

// loadConfig loads configuration the same way `casterd start` does, but
// falls back to defaults rather than erroring when no config file exists —
// `casterd mounts` is commonly run before the server has ever started.
func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
