package exporter

import (
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
)

// ReadWorkbook returns the raw, unformatted cell text of every sheet.
func ReadWorkbook(path string) (map[string][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("file", path)
	}
	defer f.Close()

	sheets := make(map[string][][]string)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read sheet", err).
				WithContext("file", path).
				WithContext("sheet", name)
		}
		sheets[name] = rows
	}
	return sheets, nil
}

// ReadReport loads a period report written by WorkbookWriter. The period is
// taken from the file name when it follows ReportFileName.
func ReadReport(path string) (report.PeriodReport, error) {
	sheets, err := ReadWorkbook(path)
	if err != nil {
		return report.PeriodReport{}, err
	}

	rep, err := report.Parse(filepath.Base(path), sheets)
	if err != nil {
		return rep, err
	}
	if p, ok := PeriodFromReportFileName(path); ok {
		rep.Period = p
	}
	return rep, nil
}
