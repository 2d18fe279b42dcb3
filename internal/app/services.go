package app

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"partnerplane/internal/admin"
	"partnerplane/internal/command"
	"partnerplane/internal/config"
	"partnerplane/internal/partnership"
	"partnerplane/internal/processor"
	"partnerplane/pkg/logging"
)

// Services holds all initialized components of the server.
type Services struct {
	// Store owns the live partnership configuration and its watcher.
	Store *partnership.Store

	// Registry dispatches command lines for every front-end.
	Registry *command.Registry

	// Metrics is the registry served on the admin /metrics endpoint.
	Metrics *prometheus.Registry

	// Runners are the enabled front-ends, in start order.
	Runners []processor.Runner
}

// InitializeServices creates the store, the command registry and every
// enabled front-end. Nothing is loaded or bound yet.
func InitializeServices(cfg *Config) (*Services, error) {
	srv := cfg.Server

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := partnership.New(partnership.Config{
		Filename:   srv.Partnerships.Filename,
		Interval:   srv.Partnerships.Interval,
		Debounce:   srv.Partnerships.Debounce,
		Registerer: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create partnership store: %w", err)
	}

	registry := command.NewDefaultRegistry(store)
	services := &Services{
		Store:    store,
		Registry: registry,
		Metrics:  metrics,
	}

	procs := srv.Processors
	if procs.Stream.Enabled {
		stream, err := processor.NewStdinStream(registry)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create console: %w", err)
		}
		services.Runners = append(services.Runners, stream)
	}

	if procs.Socket.Enabled {
		tlsConfig, err := loadTLS(procs.Socket.TLS)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		services.Runners = append(services.Runners, processor.NewSocket(processor.SocketConfig{
			Address:  procs.Socket.Address,
			UserID:   procs.Socket.UserID,
			Password: procs.Socket.Password,
			TLS:      tlsConfig,
			Timeout:  procs.Socket.Timeout,
		}, registry))
	}

	if procs.MCP.Enabled || cfg.MCPStdio {
		mcp := processor.NewMCP(registry, cfg.Version, procs.MCP.Address)
		if procs.MCP.Enabled {
			services.Runners = append(services.Runners, mcp)
		}
		if cfg.MCPStdio {
			services.Runners = append(services.Runners, mcp.Stdio(os.Stdin, os.Stdout))
		}
	}

	if srv.Admin.Enabled {
		services.Runners = append(services.Runners, admin.New(srv.Admin.Address, store, registry, metrics))
	}

	for _, r := range services.Runners {
		logging.Debug("Services", "Configured processor %s", r.Name())
	}
	return services, nil
}

// loadTLS returns nil when no certificate is configured.
func loadTLS(t config.TLSConfig) (*tls.Config, error) {
	if !t.Enabled() {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load socket certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
