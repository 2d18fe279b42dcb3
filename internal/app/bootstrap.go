package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"partnerplane/internal/config"
	"partnerplane/pkg/logging"
)

// Application bootstraps and runs the partnership server.
//
// Initialization has two phases: NewApplication loads configuration, sets up
// logging and builds the services; Run loads the partnership file and serves
// until a signal, a cancelled context or the console's exit command.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration and initializes all services.
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.Server == nil {
		path := cfg.ConfigPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		srv, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.Server = &srv
	}
	cfg.apply(cfg.Server)

	if err := config.Validate(*cfg.Server, cfg.ConfigPath); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}
	// stdout belongs to the console or the MCP stdio transport
	logging.InitForCLI(level, os.Stderr)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run loads the partnership file and serves every runner. The store is
// closed before Run returns.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.serve(ctx)
}

func (a *Application) serve(ctx context.Context) error {
	store := a.services.Store
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("Bootstrap", err, "Failed to close partnership store")
		}
	}()

	if err := store.Init(ctx); err != nil {
		logging.Error("Bootstrap", err, "Failed to load partnerships from %s", store.Filename())
		return err
	}

	if len(a.services.Runners) == 0 {
		logging.Warn("Bootstrap", "No processors enabled, serving the partnership store only")
		<-ctx.Done()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range a.services.Runners {
		g.Go(func() error {
			// one front-end ending stops the server, e.g. "exit" on the console
			defer cancel()
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s: %w", r.Name(), err)
			}
			logging.Debug("Bootstrap", "Processor %s stopped", r.Name())
			return nil
		})
	}

	logging.Info("Bootstrap", "Partnership server started with %d processor(s)", len(a.services.Runners))
	err := g.Wait()
	logging.Info("Bootstrap", "Partnership server stopped")
	return err
}
