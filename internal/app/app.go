package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/dataprocessing"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/exporter"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/files"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/infrastructure"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/validation"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// Application represents the wired report tooling for one invocation.
type Application struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Tracing *infrastructure.Tracing
	Metrics *infrastructure.RunMetrics
	Rules   domain.ReconcileRules

	Parser     *dataprocessing.Parser
	Reconciler *dataprocessing.Reconciler
	Summarizer *dataprocessing.Summarizer
	Combiner   *dataprocessing.Combiner
	Workbooks  *exporter.WorkbookWriter
	CSV        *exporter.CSVWriter
	Discovery  *files.Discovery
	Files      *validation.FileValidator
}

// NewApplication loads configuration from configPath (or the usual
// locations when empty), initializes logging and tracing, and wires every
// component.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.GetLogPath(logCfg.FilePath)
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	traceCfg := cfg.Tracing
	traceCfg.FilePath = paths.GetLogPath(traceCfg.FilePath)
	tracing, err := infrastructure.InitializeTracing(traceCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return New(cfg, paths, logger, tracing)
}

// New wires the components from already initialized dependencies. A nil
// logger falls back to the default logger and a nil tracing to no spans.
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger, tracing *infrastructure.Tracing) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tracing == nil {
		tracing = &infrastructure.Tracing{}
	}
	if paths == nil {
		var err error
		if paths, err = config.GetPaths(cfg.Paths); err != nil {
			return nil, fmt.Errorf("failed to get paths: %w", err)
		}
	}

	rules, err := cfg.Pipeline.Rules()
	if err != nil {
		return nil, err
	}
	metrics, err := infrastructure.NewRunMetrics(config.AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return &Application{
		Config:     cfg,
		Paths:      paths,
		Logger:     infrastructure.WithComponent(logger, "app"),
		Tracing:    tracing,
		Metrics:    metrics,
		Rules:      rules,
		Parser:     dataprocessing.NewParser(logger, dataprocessing.ParserConfig{ShipmentType: cfg.Pipeline.ShipmentType}),
		Reconciler: dataprocessing.NewReconciler(rules, logger),
		Summarizer: dataprocessing.NewSummarizer(rules, logger),
		Combiner:   dataprocessing.NewCombiner(rules, logger),
		Workbooks:  exporter.NewWorkbookWriter(paths, logger),
		CSV:        exporter.NewCSVWriter(paths, logger),
		Discovery:  files.NewDiscovery(paths.BaseDir),
		Files:      validation.NewFileValidator(logger),
	}, nil
}

func (a *Application) tracer() trace.Tracer {
	return a.Tracing.Tracer
}

// startStage opens a span for stage. The returned func ends it and records
// the stage duration.
func (a *Application) startStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	stageCtx, span := infrastructure.StartStage(ctx, a.tracer(), stage, attrs...)
	return stageCtx, func(err error) {
		infrastructure.EndStage(span, err)
		a.Metrics.RecordStage(ctx, stage, time.Since(start), err)
	}
}

// Shutdown flushes spans, releases metrics and closes the log file.
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.Tracing.Shutdown(ctx)
	if merr := a.Metrics.Shutdown(ctx); err == nil {
		err = merr
	}
	if cerr := infrastructure.CloseLogFile(); err == nil {
		err = cerr
	}
	return err
}
