package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
)

// TracerName is the instrumentation scope for pipeline spans.
const TracerName = "github.com/SamSkanse/Skye-Financials-Automation"

// Tracing holds the tracer used by the pipeline and how to flush it.
type Tracing struct {
	Tracer trace.Tracer

	provider *sdktrace.TracerProvider
	file     *os.File
}

// InitializeTracing sets up span export according to cfg. With exporter
// "none" a no-op tracer is returned and nothing is written.
func InitializeTracing(cfg config.TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = GetLogger()
	}

	var (
		w    io.Writer
		file *os.File
	)
	switch cfg.Exporter {
	case "", "none":
		return &Tracing{Tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	case "stdout":
		w = os.Stdout
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file %s: %w", cfg.FilePath, err)
		}
		file = f
		w = f
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}

	return newTracing(cfg, w, file, logger)
}

func newTracing(cfg config.TracingConfig, w io.Writer, file *os.File, logger *slog.Logger) (*Tracing, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)

	logger.Debug("Tracing initialized",
		slog.String("exporter", cfg.Exporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return &Tracing{
		Tracer:   tp.Tracer(TracerName, trace.WithInstrumentationVersion(config.AppVersion)),
		provider: tp,
		file:     file,
	}, nil
}

// Shutdown flushes pending spans and closes the trace file.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	err := t.provider.Shutdown(ctx)
	if t.file != nil {
		if cerr := t.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// StartStage opens a span for one pipeline stage.
func StartStage(ctx context.Context, tracer trace.Tracer, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return tracer.Start(ctx, "skye."+stage, trace.WithAttributes(attrs...))
}

// EndStage records err on span, if any, and ends it.
func EndStage(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
