package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/shared/testutil"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testModel() report.Model {
	entries := []domain.MasterLogEntry{
		{
			OrderID: "#1001", OrderDate: "2025-11-17", Email: "a@example.com",
			UnitType: domain.UnitBox, Source: "web", LineItemQuantity: 2, TotalBarsSold: 14,
			LineItemPrice: dec("25"), Subtotal: dec("50"), ShippingCollected: dec("5"),
			Tax: dec("4"), Total: dec("59"), BarCOGS: dec("35.28"), TotalShippingCost: dec("5"),
		},
		{
			Email: "FREE SAMPLES", UnitType: domain.UnitBox, Source: "free_sample",
			LineItemQuantity: 2, TotalBarsSold: 14, LineItemPrice: dec("15"),
			BarCOGS: dec("35.28"), TotalShippingCost: dec("6"),
			Issues: []domain.Issue{{Kind: domain.IssueUnresolvedUnitType, Detail: "unit price 15.00 in ambiguous band, treated as box"}},
		},
	}
	metrics := domain.SummaryMetrics{
		Revenue:            dec("50"),
		ShippingCollected:  dec("5"),
		GrossRevenue:       dec("59"),
		TaxesCollected:     dec("4"),
		COGS:               dec("70.56"),
		Total3PLCosts:      dec("23.46"),
		GrossProfit:        dec("-35.02"),
		GrossMargin:        decimal.NewNullDecimal(dec("-0.5935")),
		StartingInventory:  15802,
		BoxesSold:          4,
		TotalInventorySold: 28,
		EndingInventory:    15774,
	}
	return report.Render(entries, metrics)
}

func TestWorkbookWriterWrite(t *testing.T) {
	base := t.TempDir()
	paths := config.NewPaths(base, config.Default().Paths)
	logger, handler := testutil.NewTestLogger(t)

	w := NewWorkbookWriter(paths, logger)
	path, err := w.Write(context.Background(), "Skye_Period_Report.xlsx", testModel())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "Skye_Period_Report.xlsx"), path)
	assert.True(t, handler.ContainsMessage("Report workbook written"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.MasterLogSheet, report.FinancialSummarySheet}, f.GetSheetList())

	header, err := f.GetCellValue(report.MasterLogSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "order_id", header)

	formatted, err := f.GetCellValue(report.MasterLogSheet, "M2")
	require.NoError(t, err)
	assert.Equal(t, "$59.00", formatted)

	flags, err := f.GetCellValue(report.MasterLogSheet, "P3")
	require.NoError(t, err)
	assert.Contains(t, flags, "UnresolvedUnitType")

	label, err := f.GetCellValue(report.FinancialSummarySheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, report.LabelStartingInventory, label)

	inventory, err := f.GetCellValue(report.FinancialSummarySheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "15,802", inventory)

	margin, err := f.GetCellValue(report.FinancialSummarySheet, "B11")
	require.NoError(t, err)
	assert.Equal(t, "-59.35%", margin)

	blank, err := f.GetCellValue(report.FinancialSummarySheet, "C2")
	require.NoError(t, err)
	assert.Empty(t, blank)

	width, err := f.GetColWidth(report.MasterLogSheet, "C")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, width, float64(len("a@example.com")))
}

func TestReadReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := ReportFileName(date(2025, 11, 17), date(2025, 11, 23), "xlsx")

	path, err := NewWorkbookWriter(nil, nil).Write(context.Background(), filepath.Join(dir, name), testModel())
	require.NoError(t, err)

	rep, err := ReadReport(path)
	require.NoError(t, err)

	assert.Equal(t, name, rep.Name)
	assert.Equal(t, "11/17/25-11/23/25", rep.Label())
	require.Len(t, rep.MasterLog, 2)
	assert.Equal(t, "#1001", rep.MasterLog[0].OrderID)
	assert.True(t, dec("35.28").Equal(rep.MasterLog[0].BarCOGS))
	assert.Equal(t, domain.IssueUnresolvedUnitType, rep.MasterLog[1].Issues[0].Kind)

	s := rep.Summary
	assert.True(t, dec("59").Equal(s.GrossRevenue))
	assert.True(t, dec("-35.02").Equal(s.GrossProfit))
	require.True(t, s.GrossMargin.Valid)
	assert.True(t, dec("-0.5935").Equal(s.GrossMargin.Decimal))
	assert.Equal(t, 15774, s.EndingInventory)
}

func TestReadReportErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadReport(filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)

	other := testutil.WriteXLSX(t, dir, "other.xlsx", "Data", [][]string{{"a", "b"}})
	_, err = ReadReport(other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Master Log")
}
