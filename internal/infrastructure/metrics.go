package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
)

// MeterName is the instrumentation scope for run metrics.
const MeterName = TracerName

// RunMetrics counts what one invocation processed. Values are read back
// in-process with a manual reader; nothing is exported over the network.
type RunMetrics struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader

	StageDuration     metric.Float64Histogram
	RowsIngested      metric.Int64Counter
	EntriesReconciled metric.Int64Counter
	EntriesFlagged    metric.Int64Counter
	ReportsWritten    metric.Int64Counter
}

// NewRunMetrics creates the meter provider and instruments.
func NewRunMetrics(serviceName string) (*RunMetrics, error) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(config.AppVersion),
		)),
	)
	meter := mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	m := &RunMetrics{provider: mp, reader: reader}
	var err error

	if m.StageDuration, err = meter.Float64Histogram("skye.stage.duration",
		metric.WithDescription("Duration of pipeline stages"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}
	if m.RowsIngested, err = meter.Int64Counter("skye.rows.ingested",
		metric.WithDescription("Input rows read, by source")); err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}
	if m.EntriesReconciled, err = meter.Int64Counter("skye.master_log.entries",
		metric.WithDescription("Master Log entries produced, by kind")); err != nil {
		return nil, fmt.Errorf("failed to create entries counter: %w", err)
	}
	if m.EntriesFlagged, err = meter.Int64Counter("skye.master_log.issues",
		metric.WithDescription("Row-level issues raised, by kind")); err != nil {
		return nil, fmt.Errorf("failed to create issues counter: %w", err)
	}
	if m.ReportsWritten, err = meter.Int64Counter("skye.reports.written",
		metric.WithDescription("Report workbooks written, by kind")); err != nil {
		return nil, fmt.Errorf("failed to create reports counter: %w", err)
	}

	return m, nil
}

// RecordStage records how long stage took and whether it failed.
func (m *RunMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("error", err != nil),
	))
}

// Add increments counter by n with a single key=value attribute.
func Add(ctx context.Context, counter metric.Int64Counter, n int, key, value string) {
	if counter == nil || n == 0 {
		return
	}
	counter.Add(ctx, int64(n), metric.WithAttributes(attribute.String(key, value)))
}

// Snapshot collects the current values keyed as name{attr=value,...}.
// Counters report their sum; histograms report their sum and count.
func (m *RunMetrics) Snapshot(ctx context.Context) (map[string]float64, error) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			switch data := mt.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[seriesKey(mt.Name, dp.Attributes)] += float64(dp.Value)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					key := seriesKey(mt.Name, dp.Attributes)
					out[key+".sum"] += dp.Sum
					out[key+".count"] += float64(dp.Count)
				}
			}
		}
	}
	return out, nil
}

func seriesKey(name string, attrs attribute.Set) string {
	if attrs.Len() == 0 {
		return name
	}
	parts := make([]string, 0, attrs.Len())
	for _, kv := range attrs.ToSlice() {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

// LogSummary writes every collected series as one log record.
func (m *RunMetrics) LogSummary(ctx context.Context, logger *slog.Logger) {
	if m == nil {
		return
	}
	if logger == nil {
		logger = GetLogger()
	}
	snap, err := m.Snapshot(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Run metrics unavailable", slog.String("error", err.Error()))
		return
	}

	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Float64(k, snap[k]))
	}
	logger.InfoContext(ctx, "Run metrics", attrs...)
}

// Shutdown releases the meter provider.
func (m *RunMetrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
