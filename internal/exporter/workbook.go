package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 70
)

// WorkbookWriter writes report models as xlsx workbooks.
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a writer. Relative output paths resolve into the
// reports directory.
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{
		paths:  paths,
		logger: logger.With(slog.String("component", "workbook_writer")),
	}
}

// Write saves model to filePath, one worksheet per sheet in model order, and
// returns the full path written.
func (w *WorkbookWriter) Write(ctx context.Context, filePath string, model report.Model) (string, error) {
	fullPath := filePath
	if !filepath.IsAbs(filePath) && w.paths != nil {
		fullPath = w.paths.GetReportPath(filePath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create report directory", err).
			WithContext("path", fullPath)
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create workbook styles", err)
	}

	for i, sheet := range model.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return "", apperrors.NewStorageError("failed to name sheet", err).
					WithContext("sheet", sheet.Name)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return "", apperrors.NewStorageError("failed to add sheet", err).
				WithContext("sheet", sheet.Name)
		}

		if err := writeSheet(f, sheet, styles, i == 0); err != nil {
			return "", apperrors.NewStorageError("failed to write sheet", err).
				WithContext("sheet", sheet.Name)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).
			WithContext("path", fullPath)
	}

	w.logger.InfoContext(ctx, "Report workbook written",
		slog.String("path", fullPath),
		slog.Int("master_log_rows", len(model.MasterLog.Rows)-1))
	return fullPath, nil
}

type styleSet struct {
	header  int
	money   int
	percent int
	count   int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var (
		s   styleSet
		err error
	)
	money, percent, count := moneyNumFmt, percentNumFmt, countNumFmt

	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return s, err
	}
	if s.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percent}); err != nil {
		return s, err
	}
	if s.count, err = f.NewStyle(&excelize.Style{CustomNumFmt: &count}); err != nil {
		return s, err
	}
	return s, nil
}

func (s styleSet) forFormat(format report.Format) (int, bool) {
	switch format {
	case report.FormatMoney:
		return s.money, true
	case report.FormatPercent:
		return s.percent, true
	case report.FormatCount:
		return s.count, true
	}
	return 0, false
}

func writeSheet(f *excelize.File, sheet report.Sheet, styles styleSet, boldHeader bool) error {
	widths := make([]int, sheet.Width())

	for r, row := range sheet.Rows {
		for c, cell := range row {
			if cell.IsBlank() {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, name, cellValue(cell)); err != nil {
				return fmt.Errorf("cell %s: %w", name, err)
			}

			style, ok := styles.forFormat(cell.Format)
			if r == 0 && boldHeader {
				style, ok = styles.header, true
			}
			if ok {
				if err := f.SetCellStyle(sheet.Name, name, name, style); err != nil {
					return fmt.Errorf("cell %s: %w", name, err)
				}
			}

			if w := displayWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		w = max(minColumnWidth, min(w+2, maxColumnWidth))
		if err := f.SetColWidth(sheet.Name, col, col, float64(w)); err != nil {
			return err
		}
	}
	return nil
}
