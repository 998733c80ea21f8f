package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// Parse rebuilds a PeriodReport from the raw cell text of a written report,
// keyed by sheet name. Entry kinds are not stored in the workbook and are
// left empty. The period is not known from the sheets either; callers set it
// from the file name.
func Parse(name string, sheets map[string][][]string) (PeriodReport, error) {
	rep := PeriodReport{Name: name}

	logRows, ok := sheets[MasterLogSheet]
	if !ok {
		return rep, apperrors.NewParsingError("report has no Master Log sheet", nil).
			WithContext("file", name)
	}
	entries, err := parseMasterLog(logRows)
	if err != nil {
		return rep, apperrors.NewParsingError("failed to read Master Log", err).
			WithContext("file", name)
	}
	rep.MasterLog = entries

	summaryRows, ok := sheets[FinancialSummarySheet]
	if !ok {
		return rep, apperrors.NewParsingError("report has no Financial Summary sheet", nil).
			WithContext("file", name)
	}
	metrics, err := ParseSummary(summaryRows)
	if err != nil {
		return rep, apperrors.NewParsingError("failed to read Financial Summary", err).
			WithContext("file", name)
	}
	rep.Summary = metrics

	return rep, nil
}

var requiredMasterLogColumns = MasterLogColumns[:len(MasterLogColumns)-1]

func parseMasterLog(rows [][]string) ([]domain.MasterLogEntry, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredMasterLogColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	entries := make([]domain.MasterLogEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rr := rowReader{cols: cols, row: row}
		if rr.blank() {
			continue
		}

		unit, ok := domain.ParseUnitType(rr.text(ColUnitType))
		if !ok {
			return nil, fmt.Errorf("row %d: unknown unit type %q", i+2, rr.text(ColUnitType))
		}

		e := domain.MasterLogEntry{
			OrderID:           rr.text(ColOrderID),
			OrderDate:         rr.text(ColOrderDate),
			Email:             rr.text(ColEmail),
			UnitType:          unit,
			Source:            rr.text(ColSource),
			LineItemQuantity:  rr.count(ColLineItemQuantity),
			TotalBarsSold:     rr.count(ColTotalBarsSold),
			LineItemPrice:     rr.money(ColLineItemPrice),
			Subtotal:          rr.money(ColSubtotal),
			Discount:          rr.money(ColDiscount),
			ShippingCollected: rr.money(ColShippingCollected),
			Tax:               rr.money(ColTax),
			Total:             rr.money(ColTotal),
			BarCOGS:           rr.money(ColBarCOGS),
			TotalShippingCost: rr.money(ColTotalShippingCost),
			Issues:            ParseIssues(rr.text(ColFlags)),
		}
		if rr.err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, rr.err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseIssues is the inverse of domain.JoinIssues.
func ParseIssues(s string) []domain.Issue {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var issues []domain.Issue
	for _, part := range strings.Split(s, "; ") {
		kind, detail, _ := strings.Cut(part, ": ")
		issues = append(issues, domain.Issue{
			Kind:   domain.IssueKind(strings.TrimSpace(kind)),
			Detail: strings.TrimSpace(detail),
		})
	}
	return issues
}

// ParseSummary reads the Financial Summary grid by label, so extra rows
// below the grid are ignored.
func ParseSummary(rows [][]string) (domain.SummaryMetrics, error) {
	values := make(map[string]string)
	for _, row := range rows {
		for _, labelCol := range []int{0, 3} {
			if labelCol >= len(row) {
				continue
			}
			label := strings.TrimSpace(row[labelCol])
			if label == "" {
				continue
			}
			v := ""
			if labelCol+1 < len(row) {
				v = strings.TrimSpace(row[labelCol+1])
			}
			if _, seen := values[label]; !seen {
				values[label] = v
			}
		}
	}

	var (
		m    domain.SummaryMetrics
		errs []string
	)
	money := func(label string) decimal.Decimal {
		raw, ok := values[label]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing %q", label))
			return decimal.Zero
		}
		d, err := parseNumber(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", label, err))
		}
		return d
	}
	count := func(label string) int {
		d := money(label)
		return int(d.Round(0).IntPart())
	}

	m.Revenue = money(LabelRevenue)
	m.ShippingCollected = money(LabelShipping)
	m.GrossRevenue = money(LabelGrossRevenue)
	m.TaxesCollected = money(LabelTaxes)
	m.COGS = money(LabelCOGS)
	m.Total3PLCosts = money(Label3PLCosts)
	m.GrossProfit = money(LabelGrossProfit)

	switch raw, ok := values[LabelGrossMargin]; {
	case !ok:
		errs = append(errs, fmt.Sprintf("missing %q", LabelGrossMargin))
	case strings.EqualFold(raw, NotApplicable) || raw == "":
		m.GrossMargin = decimal.NullDecimal{}
	default:
		d, err := parseNumber(strings.TrimSuffix(raw, "%"))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", LabelGrossMargin, err))
		} else {
			if strings.HasSuffix(raw, "%") {
				d = d.Div(decimal.NewFromInt(100))
			}
			m.GrossMargin = decimal.NewNullDecimal(d)
		}
	}

	m.StartingInventory = count(LabelStartingInventory)
	m.BoxesSold = count(LabelBoxesSold)
	m.BarsSold = count(LabelBarsSold)
	m.TotalInventorySold = count(LabelTotalInventorySold)
	m.EndingInventory = count(LabelEndingInventory)

	if len(errs) > 0 {
		return m, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return m, nil
}

type rowReader struct {
	cols map[string]int
	row  []string
	err  error
}

func (r *rowReader) text(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r *rowReader) blank() bool {
	for _, c := range r.row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *rowReader) money(col string) decimal.Decimal {
	d, err := parseNumber(r.text(col))
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", col, err)
	}
	return d
}

func (r *rowReader) count(col string) int {
	raw := r.text(col)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		d, derr := parseNumber(raw)
		if derr != nil {
			if r.err == nil {
				r.err = fmt.Errorf("%s: %w", col, err)
			}
			return 0
		}
		n = int(d.Round(0).IntPart())
	}
	return n
}

// parseNumber accepts raw cell values and the formatted "$1,234.50" form.
// Blank is zero.
func parseNumber(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
