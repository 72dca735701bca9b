package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/internal/ntrip/auth"
	"github.com/ntripcaster/caster/internal/ntrip/router"
	"github.com/ntripcaster/caster/internal/ntrip/source"
	"github.com/ntripcaster/caster/internal/ntrip/sourcetable"
	"github.com/ntripcaster/caster/internal/ntrip/stats"
	"github.com/ntripcaster/caster/internal/server"
	"github.com/ntripcaster/caster/pkg/config"
	"github.com/ntripcaster/caster/pkg/metrics"
	metricsprom "github.com/ntripcaster/caster/pkg/metrics/prometheus"
)

var pidFile string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the caster",
	Long: `Start the caster with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/casterd/config.yaml.

Examples:
  # Start with the default config
  casterd start

  # Start with a custom config file
  casterd start --config /etc/casterd/config.yaml

  # Override the log level
  CASTER_LOGGING_LEVEL=DEBUG casterd start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: none)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	var metricsImpl metrics.CasterMetrics
	var metricsRegistry *prometheus.Registry
	if cfg.Metrics.Enabled {
		m, reg := metricsprom.New()
		metricsImpl = m
		metricsRegistry = reg
	} else {
		metricsImpl = (*metricsprom.Metrics)(nil)
	}

	store := auth.NewStore()
	authReloader := auth.NewReloader(cfg.Auth.MountFile, store, cfg.Auth.RehashInterval, metricsImpl)
	if err := authReloader.Reload(); err != nil {
		logger.Warn("initial mount-authentication load failed, starting with an empty ACL", "error", err)
	}
	authenticator := auth.NewAuthenticator(store)

	st := stats.New(cfg.Server.MaxClients, cfg.Server.MaxClientsPerSource)

	registry := source.NewRegistry()
	for _, mount := range cfg.Server.Sources {
		registry.Register(mount)
		st.RecordSourceConnection()
		logger.Info("registered static source", logger.KeyMount, mount)
	}

	sourcetableReloader := sourcetable.NewReloader(cfg.Sourcetable.Path, cfg.Sourcetable.RehashInterval, metricsImpl)
	if err := sourcetableReloader.Reload(); err != nil {
		logger.Warn("initial sourcetable load failed, serving NO SOURCETABLE AVAILABLE", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := authReloader.Run(ctx); err != nil {
			logger.Error("authentication reloader stopped", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sourcetableReloader.Run(ctx); err != nil {
			logger.Error("sourcetable reloader stopped", "error", err)
		}
	}()

	for _, port := range cfg.Server.Ports {
		port := port
		identity := router.Identity{
			ServerName:   cfg.Server.ServerName,
			Version:      cfg.Server.Version,
			NtripVersion: cfg.Server.NtripVersion,
			Port:         port,
		}
		r := router.New(authenticator, registry, st, sourcetableReloader, metricsImpl, identity)
		tcpServer := server.NewTCPServer(r)

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			cancel()
			return fmt.Errorf("listen on port %d: %w", port, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("NTRIP listener started", logger.KeyPort, port)
			if err := tcpServer.Serve(ctx, ln); err != nil {
				logger.Error("NTRIP listener stopped", logger.KeyPort, port, "error", err)
			}
		}()
	}

	if cfg.Admin.Enabled {
		adminServer := server.NewAdminServer(server.AdminConfig{
			Port:         cfg.Admin.Port,
			ServerName:   cfg.Server.ServerName,
			Version:      cfg.Server.Version,
			NtripVersion: cfg.Server.NtripVersion,
		}, registry, st, sourcetableReloader, metricsRegistry)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := adminServer.Start(ctx); err != nil {
				logger.Error("admin HTTP server stopped", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("caster is running", "ports", cfg.Server.Ports)
	<-sigChan
	signal.Stop(sigChan)
	logger.Info("shutdown signal received, initiating graceful shutdown")
	cancel()

	wg.Wait()
	logger.Info("caster stopped gracefully")
	return nil
}
