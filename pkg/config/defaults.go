package config

import (
	"strings"
	"time"
)

// ApplyDefaults fills zero-valued fields with sensible defaults after a
// partial config file has been unmarshaled.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyAuthDefaults(&cfg.Auth)
	applySourcetableDefaults(&cfg.Sourcetable)
	applyLoggingDefaults(&cfg.Logging)
	applyAdminDefaults(&cfg.Admin)
}

func applyServerDefaults(cfg *ServerConfig) {
	if len(cfg.Ports) == 0 {
		cfg.Ports = []int{2101} // IANA-assigned NTRIP caster port
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "NTRIP Caster"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.NtripVersion == "" {
		cfg.NtripVersion = "2.0"
	}
	if cfg.MaxClients == 0 {
		cfg.MaxClients = 500
	}
	if cfg.MaxClientsPerSource == 0 {
		cfg.MaxClientsPerSource = 100
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

func applyAuthDefaults(cfg *AuthConfig) {
	if cfg.MountFile == "" {
		cfg.MountFile = "mount.auth"
	}
	if cfg.RehashInterval == 0 {
		cfg.RehashInterval = 30 * time.Second
	}
}

func applySourcetableDefaults(cfg *SourcetableConfig) {
	if cfg.Path == "" {
		cfg.Path = "sourcetable.dat"
	}
	if cfg.RehashInterval == 0 {
		cfg.RehashInterval = 30 * time.Second
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyAdminDefaults(cfg *AdminConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
}

// DefaultConfig returns a Config populated entirely from defaults, used when
// no config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
