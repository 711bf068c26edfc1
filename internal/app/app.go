package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"inflammation/internal/config"
	"inflammation/internal/datasource"
	"inflammation/internal/infrastructure"
	customMiddleware "inflammation/internal/middleware"
	"inflammation/internal/services"
	handlers "inflammation/internal/transport/http"
	"inflammation/internal/validation"
	"inflammation/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	Metrics         *infrastructure.BusinessMetrics
	Cache           *datasource.Cache
	Registry        *datasource.Registry
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
	Guard           *validation.PathGuard
}

// NewApplication wires every component from cfg. logger is the process
// logger; nil falls back to the infrastructure logger.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()),
		slog.String("data_root", cfg.Server.DataRoot))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	opts := []datasource.Option{
		datasource.WithLogger(a.Logger),
		datasource.WithMetrics(metrics),
	}
	if a.Config.Source.CacheSize > 0 {
		cache, err := datasource.NewCache(a.Config.Source.CacheSize)
		if err != nil {
			return fmt.Errorf("failed to create dataset cache: %w", err)
		}
		a.Cache = cache
		opts = append(opts, datasource.WithCache(cache))
	}
	a.Registry = datasource.DefaultRegistry(a.Config.Source, opts...)

	guard, err := validation.NewPathGuard(a.Config.Server.DataRoot)
	if err != nil {
		return err
	}
	a.Guard = guard

	// A missing data root is not fatal; requests report NO_DATA until it exists
	if err := validation.NewFileValidator(a.Logger).ValidateInputDirectory(guard.Root()); err != nil {
		a.Logger.Warn("Data root not usable yet",
			slog.String("data_root", guard.Root()),
			slog.String("error", err.Error()))
	}

	a.AnalysisService = services.NewAnalysisService(a.Registry, a.OTelProviders.Tracer, metrics, a.Logger)
	a.HealthService = services.NewHealthService(contracts.Version, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	var limiter *customMiddleware.RateLimiter
	if rl := a.Config.Server.RateLimit; rl.Enabled {
		limiter = customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger)
	}

	a.Router = handlers.NewRouter(handlers.RouterConfig{
		Analysis:       a.AnalysisService,
		Health:         a.HealthService,
		Guard:          a.Guard,
		Logger:         a.Logger,
		Providers:      a.OTelProviders,
		Metrics:        a.Metrics,
		RequestTimeout: a.Config.Server.RequestTimeout,
		RateLimit:      limiter,
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Address(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts serving in the background. A listener failure calls cancel so
// Run can shut down instead of exiting the process.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting HTTP server",
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.Cache != nil {
		a.Cache.Close()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted or the listener fails
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
