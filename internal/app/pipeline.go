package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/dataprocessing"
	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/exporter"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/infrastructure"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/validation"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// ReportRequest describes one period report run.
type ReportRequest struct {
	OrdersPath    string
	LogisticsPath string

	// OutputPath is a file or an existing directory. Empty writes the
	// default report name into the reports directory.
	OutputPath string

	// Period overrides the window inferred from the 3PL export.
	Period domain.Period

	StartingInventory    int
	PaymentProcessingFee decimal.Decimal

	// WriteCSV also writes the Master Log as CSV next to the workbook.
	WriteCSV bool
}

// ReportResult is what a run produced.
type ReportResult struct {
	ReportPath string
	CSVPath    string
	Period     domain.Period
	Entries    []domain.MasterLogEntry
	Summary    domain.SummaryMetrics
	Flagged    int
}

// RunReport ingests both exports, reconciles them, summarizes the period and
// writes the two-sheet report.
func (a *Application) RunReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, end := a.startStage(ctx, "report")
	result, err := a.runReport(ctx, req)
	end(err)
	return result, err
}

func (a *Application) runReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	ordersPath := a.Paths.GetInputPath(req.OrdersPath)
	logisticsPath := a.Paths.GetInputPath(req.LogisticsPath)

	a.Logger.InfoContext(ctx, "Starting period report",
		slog.String("orders", ordersPath),
		slog.String("threepl", logisticsPath))

	// ingest
	stageCtx, end := a.startStage(ctx, "ingest",
		attribute.String("orders", ordersPath),
		attribute.String("threepl", logisticsPath))
	orders, shipments, err := a.ingest(stageCtx, ordersPath, logisticsPath)
	end(err)
	if err != nil {
		return nil, err
	}
	infrastructure.Add(ctx, a.Metrics.RowsIngested, len(orders), "source", "orders")
	infrastructure.Add(ctx, a.Metrics.RowsIngested, len(shipments.Records), "source", "threepl")

	inputs := domain.PeriodInputs{
		StartingInventory:    req.StartingInventory,
		PaymentProcessingFee: req.PaymentProcessingFee,
		ReceivingTotal:       shipments.ReceivingTotal,
		OtherLogisticsCosts:  shipments.OtherCosts,
	}
	if err := validation.ValidatePeriodInputs(inputs); err != nil {
		return nil, err
	}

	period := req.Period
	if !period.Known() {
		period = dataprocessing.InferPeriod(logisticsPath, shipments.Records)
	}

	// reconcile
	stageCtx, end = a.startStage(ctx, "reconcile",
		attribute.Int("orders", len(orders)),
		attribute.Int("shipments", len(shipments.Records)))
	entries, err := a.Reconciler.Reconcile(stageCtx, orders, shipments.Records)
	end(err)
	if err != nil {
		return nil, err
	}
	a.countEntries(ctx, entries)

	// summarize
	stageCtx, end = a.startStage(ctx, "summarize",
		attribute.Int("entries", len(entries)))
	metrics := a.Summarizer.Summarize(stageCtx, entries, inputs)
	end(nil)

	// render
	_, end = a.startStage(ctx, "render")
	model := report.Render(entries, metrics)
	end(nil)

	// export
	stageCtx, end = a.startStage(ctx, "export")
	result := &ReportResult{
		Period:  period,
		Entries: entries,
		Summary: metrics,
		Flagged: countFlagged(entries),
	}
	result.ReportPath, result.CSVPath, err = a.export(stageCtx, req, period, model)
	end(err)
	if err != nil {
		return nil, err
	}
	infrastructure.Add(ctx, a.Metrics.ReportsWritten, 1, "kind", "period")

	a.logResult(ctx, result)
	a.Metrics.LogSummary(ctx, a.Logger)
	return result, nil
}

func (a *Application) ingest(ctx context.Context, ordersPath, logisticsPath string) ([]domain.OrderRecord, *dataprocessing.LogisticsExport, error) {
	if err := a.Files.ValidateOrdersFile(ordersPath); err != nil {
		return nil, nil, apperrors.NewParsingError("orders export is not usable", err).
			WithContext("file", ordersPath)
	}
	if err := a.Files.ValidateLogisticsFile(logisticsPath); err != nil {
		return nil, nil, apperrors.NewParsingError("3PL export is not usable", err).
			WithContext("file", logisticsPath)
	}

	orders, err := a.Parser.ParseOrdersFile(ctx, ordersPath)
	if err != nil {
		return nil, nil, err
	}
	shipments, err := a.Parser.ParseLogisticsFile(ctx, logisticsPath)
	if err != nil {
		return nil, nil, err
	}
	return orders, shipments, nil
}

func (a *Application) export(ctx context.Context, req ReportRequest, period domain.Period, model report.Model) (string, string, error) {
	out := a.outputPath(req.OutputPath, exporter.ReportFileName(period.Start, period.End, "xlsx"))
	if err := a.Files.ValidateOutputDirectory(ctx, filepath.Dir(out)); err != nil {
		return "", "", err
	}
	reportPath, err := a.Workbooks.Write(ctx, out, model)
	if err != nil {
		return "", "", err
	}
	if !req.WriteCSV {
		return reportPath, "", nil
	}

	csvPath := reportPath[:len(reportPath)-len(filepath.Ext(reportPath))] + ".csv"
	csvPath, err = a.CSV.WriteSheet(csvPath, model.MasterLog)
	if err != nil {
		return reportPath, "", err
	}
	return reportPath, csvPath, nil
}

// outputPath places name inside out when out is an existing directory.
func (a *Application) outputPath(out, name string) string {
	if out == "" {
		return a.Paths.GetReportPath(name)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	if filepath.Ext(out) == "" {
		out += ".xlsx"
	}
	if !filepath.IsAbs(out) && filepath.Base(out) == out {
		return a.Paths.GetReportPath(out)
	}
	return out
}

func (a *Application) logResult(ctx context.Context, r *ReportResult) {
	m := r.Summary
	attrs := []any{
		slog.String("report", r.ReportPath),
		slog.String("period", r.Period.Label()),
		slog.Int("entries", len(r.Entries)),
		slog.Int("flagged", r.Flagged),
		slog.String("gross_revenue", m.GrossRevenue.StringFixed(2)),
		slog.String("cogs", m.COGS.StringFixed(2)),
		slog.String("total_3pl_costs", m.Total3PLCosts.StringFixed(2)),
		slog.String("gross_profit", m.GrossProfit.StringFixed(2)),
		slog.Int("inventory_sold", m.TotalInventorySold),
		slog.Int("ending_inventory", m.EndingInventory),
	}
	if m.GrossMargin.Valid {
		attrs = append(attrs, slog.String("gross_margin", m.GrossMargin.Decimal.Shift(2).StringFixed(2)+"%"))
	}
	if r.CSVPath != "" {
		attrs = append(attrs, slog.String("csv", r.CSVPath))
	}
	a.Logger.InfoContext(ctx, "Period report complete", attrs...)
}

func (a *Application) countEntries(ctx context.Context, entries []domain.MasterLogEntry) {
	byKind := make(map[domain.EntryKind]int)
	byIssue := make(map[domain.IssueKind]int)
	for _, e := range entries {
		byKind[e.Kind]++
		for _, is := range e.Issues {
			byIssue[is.Kind]++
		}
	}
	for k, n := range byKind {
		infrastructure.Add(ctx, a.Metrics.EntriesReconciled, n, "kind", string(k))
	}
	for k, n := range byIssue {
		infrastructure.Add(ctx, a.Metrics.EntriesFlagged, n, "issue", string(k))
	}
}

func countFlagged(entries []domain.MasterLogEntry) int {
	n := 0
	for _, e := range entries {
		if len(e.Issues) > 0 {
			n++
		}
	}
	return n
}
