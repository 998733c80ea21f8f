package report

import (
	"github.com/shopspring/decimal"
)

// Format tells the workbook writer how to present a cell.
type Format int

const (
	FormatText Format = iota
	FormatMoney
	FormatPercent
	FormatCount
)

// Cell is one positional value of a sheet. Value is a string,
// decimal.Decimal or int.
type Cell struct {
	Value  any
	Format Format
}

// Text is a plain string cell.
func Text(s string) Cell { return Cell{Value: s, Format: FormatText} }

// Money is a currency cell shown with two decimals.
func Money(d decimal.Decimal) Cell { return Cell{Value: d, Format: FormatMoney} }

// Count is a whole-number cell.
func Count(n int) Cell { return Cell{Value: n, Format: FormatCount} }

// Percent renders a ratio; a null ratio becomes NotApplicable.
func Percent(d decimal.NullDecimal) Cell {
	if !d.Valid {
		return Text(NotApplicable)
	}
	return Cell{Value: d.Decimal, Format: FormatPercent}
}

// Blank is an empty spacer cell.
func Blank() Cell { return Text("") }

// IsBlank reports whether the cell renders as nothing.
func (c Cell) IsBlank() bool {
	s, ok := c.Value.(string)
	return c.Value == nil || (ok && s == "")
}

// Sheet is a named grid of rows.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// Width is the length of the longest row.
func (s Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Model is the logical two-sheet report. It carries no file format details.
type Model struct {
	MasterLog        Sheet
	FinancialSummary Sheet
}

// Sheets returns the sheets in workbook order.
func (m Model) Sheets() []Sheet {
	return []Sheet{m.MasterLog, m.FinancialSummary}
}
