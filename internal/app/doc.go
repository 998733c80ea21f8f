// Package app wires the Skye report tooling together and runs it.
//
// NewApplication loads configuration, initializes logging, tracing and
// metrics, and builds every component. New does the same from dependencies
// the caller already holds, which is what tests use.
//
// # Period report
//
// RunReport executes one period end to end:
//
//  1. ingest: parse the order CSV and the 3PL export
//  2. reconcile: join them into the Master Log
//  3. summarize: compute SummaryMetrics for the period
//  4. render: lay out the two-sheet report model
//  5. export: write the xlsx workbook, and optionally the Master Log CSV
//
// Each stage runs inside its own span and every log line carries the run's
// trace_id. Stage durations and row counts go to the run metrics, which are
// logged once as "Run metrics" when the run finishes.
//
// # Combined report
//
// CombineReports reads period reports back from disk, merges them and writes
// one workbook in the same layout with an extra source_period_report column.
//
// # Error Handling
//
// Fatal problems are returned as *errors.AppError values. Row-level problems
// never stop a run; they are flags on the Master Log.
package app
