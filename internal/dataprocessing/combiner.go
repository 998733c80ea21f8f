package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/report"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

const inventoryTolerance = 1

var moneyTolerance = decimal.RequireFromString("0.01")

// Combiner merges period reports into one multi-period report.
type Combiner struct {
	rules  domain.ReconcileRules
	logger *slog.Logger
}

// NewCombiner creates a combiner. rules supplies bars per box for the unit
// balance check.
func NewCombiner(rules domain.ReconcileRules, logger *slog.Logger) *Combiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Combiner{
		rules:  rules,
		logger: logger.With(slog.String("component", "combiner")),
	}
}

// CombineReports concatenates the Master Logs of reports, in period order,
// and sums their summaries. Gross profit and margin are recomputed from the
// summed lines. Starting inventory comes from the earliest period and ending
// inventory from the latest. Figures that do not balance are reported as
// notes, not errors.
func (c *Combiner) CombineReports(ctx context.Context, reports []report.PeriodReport) (report.CombinedReport, error) {
	if len(reports) == 0 {
		return report.CombinedReport{}, apperrors.NewAppValidationError("no period reports to combine")
	}

	ordered := make([]report.PeriodReport, len(reports))
	copy(ordered, reports)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Period, ordered[j].Period
		switch {
		case a.Known() && b.Known():
			return a.Start.Before(b.Start)
		case a.Known() != b.Known():
			return a.Known()
		default:
			return ordered[i].Name < ordered[j].Name
		}
	})

	var (
		out   report.CombinedReport
		total = domain.SummaryMetrics{
			Revenue:           decimal.Zero,
			ShippingCollected: decimal.Zero,
			GrossRevenue:      decimal.Zero,
			TaxesCollected:    decimal.Zero,
			COGS:              decimal.Zero,
			Total3PLCosts:     decimal.Zero,
		}
	)

	for i, rep := range ordered {
		label := rep.Label()
		out.Periods = append(out.Periods, label)
		for _, e := range rep.MasterLog {
			out.MasterLog = append(out.MasterLog, report.LabeledEntry{Entry: e, Source: label})
		}

		s := rep.Summary
		total.Revenue = total.Revenue.Add(s.Revenue)
		total.ShippingCollected = total.ShippingCollected.Add(s.ShippingCollected)
		total.GrossRevenue = total.GrossRevenue.Add(s.GrossRevenue)
		total.TaxesCollected = total.TaxesCollected.Add(s.TaxesCollected)
		total.COGS = total.COGS.Add(s.COGS)
		total.ShippingCosts = total.ShippingCosts.Add(s.ShippingCosts)
		total.ReceivingTotal = total.ReceivingTotal.Add(s.ReceivingTotal)
		total.OtherLogisticsCosts = total.OtherLogisticsCosts.Add(s.OtherLogisticsCosts)
		total.PaymentProcessingFee = total.PaymentProcessingFee.Add(s.PaymentProcessingFee)
		total.Total3PLCosts = total.Total3PLCosts.Add(s.Total3PLCosts)
		total.BoxesSold += s.BoxesSold
		total.BarsSold += s.BarsSold
		total.TotalInventorySold += s.TotalInventorySold

		out.Notes = append(out.Notes, c.checkPeriod(label, s)...)

		if i > 0 {
			prev := ordered[i-1].Summary
			if absInt(prev.EndingInventory-s.StartingInventory) > inventoryTolerance {
				out.Notes = append(out.Notes, fmt.Sprintf(
					"%s: starting inventory %d does not continue from previous ending inventory %d",
					label, s.StartingInventory, prev.EndingInventory))
			}
		}
	}

	total.StartingInventory = ordered[0].Summary.StartingInventory
	total.EndingInventory = ordered[len(ordered)-1].Summary.EndingInventory
	total.GrossProfit = total.GrossRevenue.Sub(total.COGS).Sub(total.Total3PLCosts)
	if total.GrossRevenue.IsZero() {
		total.Issues = append(total.Issues, domain.Issue{
			Kind:   domain.IssueDivisionByZeroMetric,
			Detail: "gross margin undefined: gross revenue is zero",
		})
	} else {
		total.GrossMargin = decimal.NewNullDecimal(total.GrossProfit.Div(total.GrossRevenue))
	}

	if calc := total.BoxesSold*c.rules.BarsPerBox + total.BarsSold; absInt(calc-total.TotalInventorySold) > inventoryTolerance {
		out.Notes = append(out.Notes, fmt.Sprintf(
			"Combined: bars sum mismatch, boxes and bars give %d but total inventory sold is %d",
			calc, total.TotalInventorySold))
	}
	if calc := total.StartingInventory - total.TotalInventorySold; absInt(calc-total.EndingInventory) > inventoryTolerance {
		out.Notes = append(out.Notes, fmt.Sprintf(
			"Combined: inventory balance mismatch, starting %d - sold %d = %d but ending is %d",
			total.StartingInventory, total.TotalInventorySold, calc, total.EndingInventory))
	}

	out.Summary = total

	c.logger.InfoContext(ctx, "Period reports combined",
		slog.Int("reports", len(ordered)),
		slog.Int("entries", len(out.MasterLog)),
		slog.String("gross_revenue", total.GrossRevenue.StringFixed(2)),
		slog.Int("notes", len(out.Notes)))
	for _, n := range out.Notes {
		c.logger.WarnContext(ctx, "Balance check failed", slog.String("note", n))
	}

	return out, nil
}

// checkPeriod verifies the internal arithmetic of one period's summary.
func (c *Combiner) checkPeriod(label string, s domain.SummaryMetrics) []string {
	var notes []string

	if sum := s.Revenue.Add(s.ShippingCollected).Add(s.TaxesCollected); sum.Sub(s.GrossRevenue).Abs().GreaterThan(moneyTolerance) {
		notes = append(notes, fmt.Sprintf(
			"%s: revenue + shipping + taxes = %s but gross revenue is %s",
			label, sum.StringFixed(2), s.GrossRevenue.StringFixed(2)))
	}
	if profit := s.GrossRevenue.Sub(s.COGS).Sub(s.Total3PLCosts); profit.Sub(s.GrossProfit).Abs().GreaterThan(moneyTolerance) {
		notes = append(notes, fmt.Sprintf(
			"%s: gross revenue - COGS - 3PL costs = %s but gross profit is %s",
			label, profit.StringFixed(2), s.GrossProfit.StringFixed(2)))
	}
	if calc := s.StartingInventory - s.TotalInventorySold; absInt(calc-s.EndingInventory) > inventoryTolerance {
		notes = append(notes, fmt.Sprintf(
			"%s: starting %d - sold %d = %d but ending inventory is %d",
			label, s.StartingInventory, s.TotalInventorySold, calc, s.EndingInventory))
	}
	return notes
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
