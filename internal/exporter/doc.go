// Package exporter writes report models to files and reads them back.
//
// This package contains three main components:
//
// WorkbookWriter: serializes a report.Model as an xlsx workbook with one
// worksheet per sheet, currency/percent/count number formats and sized
// columns.
//
// CSVWriter: core CSV writing with headers, streaming and a UTF-8 BOM for
// Excel compatibility. Used for the optional Master Log CSV.
//
// ReadReport: loads a written period report back into a report.PeriodReport
// for combining.
//
// Example usage:
//
//	name := exporter.ReportFileName(period.Start, period.End, "xlsx")
//	path, err := exporter.NewWorkbookWriter(paths, logger).Write(ctx, name, model)
//
//	rep, err := exporter.ReadReport(path)
package exporter
