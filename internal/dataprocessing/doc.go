// Package dataprocessing turns the weekly order and 3PL exports into a
// reconciled Master Log and the period's financial summary.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Parser: reads the order CSV and the 3PL workbook into domain records
//  2. Reconciler: joins orders and shipments and classifies samples and sendouts
//  3. Summarizer: reduces the Master Log to SummaryMetrics
//  4. Combiner: merges previously written period reports
//
// # Data Flow
//
//	orders.csv ─┐
//	            ├→ Parser → Reconciler → Master Log → Summarizer → SummaryMetrics
//	3PL.xlsx ───┘
//
// # Usage
//
//	rules := domain.DefaultReconcileRules()
//	parser := dataprocessing.NewParser(logger, dataprocessing.ParserConfig{ShipmentType: "Shipment Order"})
//	orders, err := parser.ParseOrdersFile(ctx, "orders_export.csv")
//	...
//	entries, err := dataprocessing.NewReconciler(rules, logger).Reconcile(ctx, orders, export.Records)
//	metrics := dataprocessing.NewSummarizer(rules, logger).Summarize(ctx, entries, inputs)
//
// # Error Handling
//
// Unreadable files and missing required columns are returned as
// *errors.AppError values. Row-level problems never fail a run; they are
// attached to the affected entry as domain.Issue annotations and logged.
package dataprocessing
