package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chrissnell/paleoprofile/internal/controllers/restserver"
	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/internal/telemetry"
	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/config"
	"github.com/chrissnell/paleoprofile/pkg/profile"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	config *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &App{
		config: cfg,
		logger: logger,
	}
}

// NewEngine builds the range catalog, seeded with the configured override
// presets, and an assembler generating from it.
func NewEngine(cfg *config.ConfigData, logger *zap.SugaredLogger) (*catalog.Catalog, *profile.Assembler, error) {
	store := catalog.NewOverrideStore()
	version, err := cfg.ApplyOverrides(store)
	if err != nil {
		return nil, nil, fmt.Errorf("error applying range overrides: %w", err)
	}
	if version > 0 {
		logger.Infow("range override presets loaded", "count", len(cfg.Overrides), "catalog_version", version)
	}

	cat := catalog.New(store)
	assembler := profile.NewAssembler(cat, profile.Options{
		MaxDepthPoints:   cfg.Generation.MaxDepthPoints,
		BatchConcurrency: cfg.Generation.BatchConcurrency,
	}, logger)
	return cat, assembler, nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize tracing
	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     a.config.Telemetry.Enabled,
		Endpoint:    a.config.Telemetry.Endpoint,
		ServiceName: a.config.Telemetry.ServiceName,
		SampleRatio: a.config.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("error initializing telemetry: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warnf("telemetry shutdown: %v", err)
		}
	}()

	cat, assembler, err := NewEngine(a.config, a.logger)
	if err != nil {
		return err
	}

	// Initialize the REST controller
	rc, err := restserver.NewController(ctx, &wg, a.config, cat, assembler, a.logger)
	if err != nil {
		return err
	}
	if err := rc.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	var serveErr error
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	case err := <-rc.Errors():
		serveErr = fmt.Errorf("REST server stopped: %w", err)
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return serveErr
}
