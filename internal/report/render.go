package report

import (
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// PeriodReport is one period's Master Log and summary, either freshly
// computed or read back from a written workbook.
type PeriodReport struct {
	// Name is the file name the report was read from, if any.
	Name      string
	Period    domain.Period
	MasterLog []domain.MasterLogEntry
	Summary   domain.SummaryMetrics
}

// Label identifies the report in a combined Master Log.
func (r PeriodReport) Label() string {
	if l := r.Period.Label(); l != "" {
		return l
	}
	return r.Name
}

// LabeledEntry is a Master Log entry tagged with the report it came from.
type LabeledEntry struct {
	Entry  domain.MasterLogEntry
	Source string
}

// CombinedReport merges several period reports.
type CombinedReport struct {
	Periods   []string
	MasterLog []LabeledEntry
	Summary   domain.SummaryMetrics
	Notes     []string
}

// Render lays out entries and metrics as the two-sheet report.
func Render(entries []domain.MasterLogEntry, metrics domain.SummaryMetrics) Model {
	rows := make([][]Cell, 0, len(entries)+1)
	rows = append(rows, headerRow(MasterLogColumns))
	for _, e := range entries {
		rows = append(rows, entryRow(e))
	}

	return Model{
		MasterLog: Sheet{Name: MasterLogSheet, Rows: rows},
		FinancialSummary: Sheet{
			Name: FinancialSummarySheet,
			Rows: summaryGrid(metrics),
		},
	}
}

// RenderCombined lays out a combined report. The Master Log gains a
// source_period_report column and the summary is followed by the list of
// periods and the balance check notes.
func RenderCombined(c CombinedReport) Model {
	columns := append(append([]string{}, MasterLogColumns...), ColSourcePeriodReport)

	rows := make([][]Cell, 0, len(c.MasterLog)+1)
	rows = append(rows, headerRow(columns))
	for _, le := range c.MasterLog {
		rows = append(rows, append(entryRow(le.Entry), Text(le.Source)))
	}

	summary := summaryGrid(c.Summary)
	summary = append(summary, []Cell{}, []Cell{Text(LabelPeriodsTitle)})
	for _, p := range c.Periods {
		summary = append(summary, []Cell{Text(p)})
	}

	summary = append(summary, []Cell{}, []Cell{Text(LabelChecksTitle)})
	if len(c.Notes) == 0 {
		summary = append(summary, []Cell{Text(LabelChecksPassed)})
	}
	for _, n := range c.Notes {
		summary = append(summary, []Cell{Text(n)})
	}

	return Model{
		MasterLog:        Sheet{Name: MasterLogSheet, Rows: rows},
		FinancialSummary: Sheet{Name: FinancialSummarySheet, Rows: summary},
	}
}

func headerRow(columns []string) []Cell {
	row := make([]Cell, len(columns))
	for i, c := range columns {
		row[i] = Text(c)
	}
	return row
}

func entryRow(e domain.MasterLogEntry) []Cell {
	return []Cell{
		Text(e.OrderID),
		Text(e.OrderDate),
		Text(e.Email),
		Text(string(e.UnitType)),
		Text(e.Source),
		Count(e.LineItemQuantity),
		Count(e.TotalBarsSold),
		Money(e.LineItemPrice),
		Money(e.Subtotal),
		Money(e.Discount),
		Money(e.ShippingCollected),
		Money(e.Tax),
		Money(e.Total),
		Money(e.BarCOGS),
		Money(e.TotalShippingCost),
		Text(domain.JoinIssues(e.Issues)),
	}
}

// summaryGrid is the fixed five-column Financial Summary layout.
func summaryGrid(m domain.SummaryMetrics) [][]Cell {
	left := [][]Cell{
		{Text(LabelFinancialsTitle), Blank()},
		{Text(LabelRevenue), Money(m.Revenue)},
		{Text(LabelShipping), Money(m.ShippingCollected)},
		{Text(LabelSeparator), Blank()},
		{Text(LabelGrossRevenue), Money(m.GrossRevenue)},
		{Text(LabelTaxes), Money(m.TaxesCollected)},
		{Text(LabelCOGS), Money(m.COGS)},
		{Text(Label3PLCosts), Money(m.Total3PLCosts)},
		{Text(LabelSeparator), Blank()},
		{Text(LabelGrossProfit), Money(m.GrossProfit)},
		{Text(LabelGrossMargin), Percent(m.GrossMargin)},
	}
	right := [][]Cell{
		{Text(LabelInventoryTitle), Blank()},
		{Text(LabelStartingInventory), Count(m.StartingInventory)},
		{Text(LabelBoxesSold), Count(m.BoxesSold)},
		{Text(LabelBarsSold), Count(m.BarsSold)},
		{Text(LabelTotalInventorySold), Count(m.TotalInventorySold)},
		{Text(LabelEndingInventory), Count(m.EndingInventory)},
	}

	grid := make([][]Cell, len(left))
	for i := range left {
		row := []Cell{left[i][0], left[i][1], Blank(), Blank(), Blank()}
		if i < len(right) {
			row[3], row[4] = right[i][0], right[i][1]
		}
		grid[i] = row
	}
	return grid
}
