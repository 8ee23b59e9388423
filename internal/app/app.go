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
	"time"

	"github.com/go-chi/chi/v5"

	"fidash/internal/config"
	"fidash/internal/dataset"
	apierrors "fidash/internal/errors"
	"fidash/internal/infrastructure"
	customMiddleware "fidash/internal/middleware"
	"fidash/internal/services"
	handlers "fidash/internal/transport/http"
	"fidash/internal/web"
	"fidash/pkg/contracts"
)

const AppName = "Ethiopia Financial Inclusion Dashboard"

// compressedTypes are the response types worth compressing
var compressedTypes = []string{
	"text/html",
	"text/css",
	"text/csv",
	"application/json",
	"image/svg+xml",
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Paths         *config.Paths
	Store         *dataset.Store
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Export    *services.ExportService
	Health    *services.HealthService
}

// NewApplication loads configuration from the environment and config file
// and builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires an application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Paths:         paths,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices builds the snapshot store and the services over it.
// Nothing is read from disk until the first request or WarmUp.
func (a *Application) initializeServices() {
	loader := dataset.NewLoader(dataset.Files{
		Unified:  a.Paths.UnifiedFile,
		Forecast: a.Paths.ForecastFile,
		Impact:   a.Paths.ImpactFile,
	}, a.Logger, a.Metrics)
	a.Store = dataset.NewStore(loader)

	dash := a.Config.Dashboard
	a.Services = &ServiceContainer{
		Dashboard: services.NewDashboardService(a.Store, dash, a.Metrics, a.Logger),
		Export: services.NewExportService(a.Store, services.TrendsQuery{
			Pillars: handlers.DefaultPillars,
			From:    dash.DefaultFrom,
			To:      dash.DefaultTo,
		}, a.Metrics, a.Logger),
		Health: services.NewHealthService(contracts.Version, a.Paths, a.Store, a.Logger),
	}
}

func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → the rest
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	params := handlers.NewQueryParser(a.Config.Dashboard)
	pages, err := handlers.NewPageHandler(a.Services.Dashboard, params, web.Templates(), a.Logger, a.ErrorHandler)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))
		r.Use(customMiddleware.Compress(5, compressedTypes...))

		a.setupAPIRoutes(r, params)

		r.Mount("/charts", handlers.NewChartHandler(a.Services.Dashboard, params, a.Logger, a.ErrorHandler).Routes())

		r.Get("/", pages.Overview)
		r.Get("/trends", pages.Trends)
		r.Get("/forecasts", pages.Forecasts)
		r.Get("/projections", pages.Projections)

		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	})

	// Prometheus scrape endpoint, outside the group so scrapes are not
	// traced or rate limited
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	a.Router = r
	return nil
}

func (a *Application) setupAPIRoutes(r chi.Router, params *handlers.QueryParser) {
	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)

		r.Mount("/data", handlers.NewDataHandler(a.Services.Dashboard, params, a.Logger, a.ErrorHandler).Routes())
		r.Mount("/export", handlers.NewExportHandler(a.Services.Export, params, a.Logger, a.ErrorHandler).Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// WarmUp loads the dataset ahead of the first request. A failed load is
// logged and memoized; the pages then answer with the unavailable error.
func (a *Application) WarmUp(ctx context.Context) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()
	snap, err := a.Store.Get(ctx)
	if err != nil {
		infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Dataset unavailable",
			slog.Any("missing_files", a.Paths.Missing()))
		return
	}
	a.Logger.InfoContext(ctx, "Dataset loaded",
		slog.Int("records", snap.Summary.Total),
		slog.Int("observations", snap.Summary.Observations),
		slog.Int("events", snap.Summary.Events),
		slog.Duration("duration", time.Since(start)))
}

// Start begins serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go a.WarmUp(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", "http://"+a.Server.Addr))
	return nil
}

// Stop drains in-flight requests and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run starts the application and blocks until SIGINT, SIGTERM or a server
// failure
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

	// ctx may already be cancelled, shutdown gets a fresh deadline
	return a.Stop(context.WithoutCancel(ctx))
}
