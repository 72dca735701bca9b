package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate enforces the struct tags above and a few cross-field invariants
// the tags can't express (max_clients_per_source must not exceed max_clients,
// since a mount can never legitimately serve more listeners than the server
// as a whole admits).
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Server.MaxClientsPerSource > cfg.Server.MaxClients {
		return fmt.Errorf("server.max_clients_per_source (%d) cannot exceed server.max_clients (%d)",
			cfg.Server.MaxClientsPerSource, cfg.Server.MaxClients)
	}

	seen := make(map[int]bool, len(cfg.Server.Ports))
	for _, p := range cfg.Server.Ports {
		if seen[p] {
			return fmt.Errorf("server.ports contains duplicate port %d", p)
		}
		seen[p] = true
	}

	return nil
}
