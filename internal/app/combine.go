package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/exporter"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/files"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/infrastructure"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
)

// CombineRequest names the period reports to merge. Files takes precedence
// over InputDir; with neither, the reports directory is searched.
type CombineRequest struct {
	Files      []string
	InputDir   string
	OutputPath string
}

// CombineResult is what a combine run produced.
type CombineResult struct {
	ReportPath string
	Combined   report.CombinedReport
}

// DefaultCombinedFileName names a combined report after the first and last
// period it covers.
func DefaultCombinedFileName(periods []files.FileInfo) string {
	var start, end time.Time
	for _, f := range periods {
		if !f.Period.Known() {
			continue
		}
		if start.IsZero() || f.Period.Start.Before(start) {
			start = f.Period.Start
		}
		if end.IsZero() || f.Period.End.After(end) {
			end = f.Period.End
		}
	}
	name := exporter.ReportFileName(start, end, "xlsx")
	return "Combined_" + name
}

// CombineReports reads previously written period reports and writes one
// combined report.
func (a *Application) CombineReports(ctx context.Context, req CombineRequest) (*CombineResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, end := a.startStage(ctx, "combine")
	result, err := a.combineReports(ctx, req)
	end(err)
	return result, err
}

func (a *Application) combineReports(ctx context.Context, req CombineRequest) (*CombineResult, error) {
	inputs, err := a.resolveReports(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewNotFoundError("period reports")
	}

	// ingest
	stageCtx, end := a.startStage(ctx, "ingest",
		attribute.Int("reports", len(inputs)))
	reports := make([]report.PeriodReport, 0, len(inputs))
	for _, in := range inputs {
		if err = a.Files.ValidateReportFile(in.Path); err != nil {
			err = apperrors.NewParsingError("period report is not usable", err).WithContext("file", in.Path)
			break
		}
		var rep report.PeriodReport
		if rep, err = exporter.ReadReport(in.Path); err != nil {
			break
		}
		a.Logger.DebugContext(stageCtx, "Period report loaded",
			slog.String("file", in.Path),
			slog.String("period", rep.Label()),
			slog.Int("entries", len(rep.MasterLog)))
		reports = append(reports, rep)
	}
	end(err)
	if err != nil {
		return nil, err
	}
	infrastructure.Add(ctx, a.Metrics.RowsIngested, len(reports), "source", "period_report")

	// combine
	stageCtx, end = a.startStage(ctx, "summarize")
	combined, err := a.Combiner.CombineReports(stageCtx, reports)
	end(err)
	if err != nil {
		return nil, err
	}

	// render
	_, end = a.startStage(ctx, "render")
	model := report.RenderCombined(combined)
	end(nil)

	// export
	stageCtx, end = a.startStage(ctx, "export")
	out := a.outputPath(req.OutputPath, DefaultCombinedFileName(inputs))
	err = a.Files.ValidateOutputDirectory(stageCtx, filepath.Dir(out))
	var path string
	if err == nil {
		path, err = a.Workbooks.Write(stageCtx, out, model)
	}
	end(err)
	if err != nil {
		return nil, err
	}
	infrastructure.Add(ctx, a.Metrics.ReportsWritten, 1, "kind", "combined")

	a.Logger.InfoContext(ctx, "Combined report complete",
		slog.String("report", path),
		slog.Int("periods", len(combined.Periods)),
		slog.Int("entries", len(combined.MasterLog)),
		slog.Int("notes", len(combined.Notes)),
		slog.String("gross_profit", combined.Summary.GrossProfit.StringFixed(2)))
	a.Metrics.LogSummary(ctx, a.Logger)

	return &CombineResult{ReportPath: path, Combined: combined}, nil
}

func (a *Application) resolveReports(ctx context.Context, req CombineRequest) ([]files.FileInfo, error) {
	if len(req.Files) > 0 {
		described, err := files.Describe(req.Files)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read period report", err)
		}
		files.SortByPeriod(described)
		return described, nil
	}

	dir := req.InputDir
	if dir == "" {
		dir = a.Paths.ReportsDir
	}
	if _, err := a.Files.ValidateInputDirectory(ctx, dir, config.ReportFilePrefix+"_*.xlsx"); err != nil {
		return nil, err
	}
	found, err := a.Discovery.FindReportFiles(dir)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list period reports", err).
			WithContext("directory", dir)
	}
	return found, nil
}
