package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/exporter"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/operations"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/publisher"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/scraper"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/validation"
)

// Mode selects which steps a run executes
type Mode string

const (
	// ModeFull runs extract, transform, package and publish
	ModeFull Mode = "full"
	// ModeProcess transforms and packages what is already staged
	ModeProcess Mode = "process"
)

const shutdownTimeout = 10 * time.Second

// Application holds the wiring shared by every command
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Telemetry     *operations.Telemetry
}

// NewApplication loads configuration and sets up logging and telemetry
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationFromConfig(cfg)
}

// NewApplicationFromConfig builds the application from an already loaded configuration
func NewApplicationFromConfig(cfg *config.Config) (*Application, error) {
	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if paths.LogsDir != "" {
		if err := os.MkdirAll(paths.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	cfg.Logging.FilePath = underBase(paths.BaseDir, cfg.Logging.FilePath)
	cfg.Telemetry.MetricsFile = underBase(paths.BaseDir, cfg.Telemetry.MetricsFile)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	telemetry, err := operations.NewTelemetry(providers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Telemetry:     telemetry,
	}, nil
}

func underBase(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Fetcher builds the archive downloader
func (a *Application) Fetcher() (*scraper.Fetcher, error) {
	return scraper.NewFetcher(a.Config.Source, a.Paths.StagingDir, a.Logger)
}

// Transformer builds the transform state machine
func (a *Application) Transformer() *operations.Transformer {
	return operations.NewTransformer(a.Paths, a.Config.Filter, a.Telemetry, a.Logger)
}

// Pipeline assembles the steps for mode
func (a *Application) Pipeline(mode Mode) (*operations.Pipeline, error) {
	var steps []operations.Step

	if mode == ModeFull {
		fetcher, err := a.Fetcher()
		if err != nil {
			return nil, err
		}
		steps = append(steps, operations.NewExtractStep(fetcher))
	}

	steps = append(steps,
		operations.NewTransformStep(a.Transformer()),
		operations.NewPackageStep(exporter.NewZipPackager(), a.Paths.OutputCSV, a.Paths.OutputZip),
	)

	if mode == ModeFull && a.Config.Publish.Enabled() {
		steps = append(steps, operations.NewPublishStep(publisher.New(a.Config.Publish, a.Logger)))
	}

	return operations.NewPipeline(a.Telemetry, a.Logger, steps...), nil
}

// Run executes the pipeline for mode until it finishes or the process is interrupted
func (a *Application) Run(ctx context.Context, mode Mode) (*operations.OperationState, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = infrastructure.EnsureRunID(ctx)

	if err := validation.NewFileValidator(a.Logger).ValidateOutputTargets(a.Paths.OutputCSV, a.Paths.OutputZip); err != nil {
		return nil, fmt.Errorf("invalid output configuration: %w", err)
	}

	pipeline, err := a.Pipeline(mode)
	if err != nil {
		return nil, err
	}

	a.Logger.InfoContext(ctx, "Run started", slog.String("mode", string(mode)))
	return pipeline.Run(ctx)
}

// Stop flushes telemetry and closes the log file
func (a *Application) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.OTelProviders.WriteMetrics(); err != nil {
		a.Logger.ErrorContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}
