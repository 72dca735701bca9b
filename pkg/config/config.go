// Package config loads and validates the caster's static configuration:
// listen ports and admission caps, the mount-authentication and sourcetable
// file locations, logging, and the admin HTTP/metrics surface.
//
// Configuration sources, in precedence order (highest first):
//  1. Environment variables (CASTER_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Environment variables override only keys that appear in the loaded
// configuration file. When no file is found, Load returns the defaults and
// does not read the environment.
//
// Dynamic state — the mount ACL tree and the sourcetable catalog — is NOT
// part of this struct; it lives in internal/ntrip/auth and
// internal/ntrip/sourcetable and is loaded from the paths named here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the caster's static configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Auth       AuthConfig       `mapstructure:"auth" yaml:"auth"`
	Sourcetable SourcetableConfig `mapstructure:"sourcetable" yaml:"sourcetable"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
	Admin      AdminConfig      `mapstructure:"admin" yaml:"admin"`
}

// ServerConfig carries the settings called out as "a settings
// structure with fields max_clients, max_clients_per_source, version,
// ntrip_version, listen port[], and server_name".
type ServerConfig struct {
	Ports               []int         `mapstructure:"ports" validate:"required,min=1,dive,min=1,max=65535" yaml:"ports"`
	ServerName          string        `mapstructure:"server_name" validate:"required" yaml:"server_name"`
	Version             string        `mapstructure:"version" validate:"required" yaml:"version"`
	NtripVersion        string        `mapstructure:"ntrip_version" validate:"required" yaml:"ntrip_version"`
	MaxClients          int           `mapstructure:"max_clients" validate:"required,gt=0" yaml:"max_clients"`
	MaxClientsPerSource int           `mapstructure:"max_clients_per_source" validate:"required,gt=0" yaml:"max_clients_per_source"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Sources statically registers mountpoints with the in-memory source
	// registry at startup. The caster's wire protocol has no pusher-side
	// registration path (C1 only parses GET handshakes), so this is the
	// only way a mount becomes attachable in this core.
	Sources []string `mapstructure:"sources" yaml:"sources"`
}

// AuthConfig locates the mount-authentication file and the
// interval on which its mtime is polled for hot-reload (Open Question (b)).
type AuthConfig struct {
	MountFile      string        `mapstructure:"mount_file" validate:"required" yaml:"mount_file"`
	RehashInterval time.Duration `mapstructure:"rehash_interval" validate:"required,gt=0" yaml:"rehash_interval"`
}

// SourcetableConfig locates the sourcetable.dat.
type SourcetableConfig struct {
	Path           string        `mapstructure:"path" yaml:"path"`
	RehashInterval time.Duration `mapstructure:"rehash_interval" validate:"required,gt=0" yaml:"rehash_interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig controls whether Prometheus collectors are registered at all
// (casterd start builds a nil *prometheus.Metrics when disabled),
// independent of whether the admin HTTP surface that exposes them is running.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// AdminConfig configures the read-only admin HTTP surface
// (/healthz, /metrics, /stats, /sourcetable.html — see internal/server).
type AdminConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load reads configuration from file, environment, and defaults, validating
// the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !found {
		cfg := DefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load with operator-friendly errors when no config file exists.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Initialize one first:\n  casterd init\n\n"+
				"Or point at an existing file:\n  casterd <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Create it with:\n  casterd init --config %s", configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories as needed.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(durationDecodeHook())
}

// durationDecodeHook lets config files write "30s", "5m", "1h" instead of
// raw nanosecond integers for every *_timeout / *_interval field.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "casterd")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "casterd")
	}
	return "."
}

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/casterd/config.yaml (or the
// equivalent fallback).
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether the default config file is present.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir exposes the computed config directory, e.g. for `casterd init`.
func GetConfigDir() string {
	return getConfigDir()
}
