package exporter

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
)

// Excel number formats per cell format.
const (
	moneyNumFmt   = `"$"#,##0.00`
	percentNumFmt = `0.00%`
	countNumFmt   = `#,##0`
)

var hundred = decimal.NewFromInt(100)

// FormatCell renders a cell as text: money with exactly 2 decimal places,
// percentages as "12.34%", counts as plain integers.
func FormatCell(c report.Cell) string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case decimal.Decimal:
		switch c.Format {
		case report.FormatPercent:
			return v.Mul(hundred).StringFixed(2) + "%"
		case report.FormatCount:
			return v.Round(0).String()
		default:
			return v.StringFixed(2)
		}
	default:
		return fmt.Sprint(v)
	}
}

// cellValue converts a cell to the value excelize stores.
func cellValue(c report.Cell) interface{} {
	switch v := c.Value.(type) {
	case decimal.Decimal:
		if c.Format == report.FormatMoney {
			v = v.Round(2)
		}
		return v.InexactFloat64()
	default:
		return v
	}
}

// displayWidth estimates the column width a cell needs.
func displayWidth(c report.Cell) int {
	s := FormatCell(c)
	if c.Format == report.FormatMoney || c.Format == report.FormatCount {
		// room for the "$" and thousands separators
		s += "$,,"
	}
	return len([]rune(s))
}
