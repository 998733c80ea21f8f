package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// Summarizer derives the period's financial and inventory summary from the
// Master Log.
type Summarizer struct {
	rules  domain.ReconcileRules
	logger *slog.Logger
}

// NewSummarizer creates a summarizer using the same rules the Master Log was
// reconciled with.
func NewSummarizer(rules domain.ReconcileRules, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		rules:  rules,
		logger: logger.With(slog.String("component", "summarizer")),
	}
}

// Summarize reduces entries into SummaryMetrics. Sendout entries contribute
// only their shipping cost; they are excluded from units sold.
func (s *Summarizer) Summarize(ctx context.Context, entries []domain.MasterLogEntry, in domain.PeriodInputs) domain.SummaryMetrics {
	fee := in.PaymentProcessingFee.Round(2)

	m := domain.SummaryMetrics{
		Revenue:              decimal.Zero,
		ShippingCollected:    decimal.Zero,
		GrossRevenue:         decimal.Zero,
		TaxesCollected:       decimal.Zero,
		COGS:                 decimal.Zero,
		ShippingCosts:        decimal.Zero,
		ReceivingTotal:       in.ReceivingTotal,
		OtherLogisticsCosts:  in.OtherLogisticsCosts,
		PaymentProcessingFee: fee,
		StartingInventory:    in.StartingInventory,
	}

	for _, e := range entries {
		m.Revenue = m.Revenue.Add(e.Total.Sub(e.Tax).Sub(e.ShippingCollected))
		m.ShippingCollected = m.ShippingCollected.Add(e.ShippingCollected)
		m.GrossRevenue = m.GrossRevenue.Add(e.Total)
		m.TaxesCollected = m.TaxesCollected.Add(e.Tax)
		m.COGS = m.COGS.Add(e.BarCOGS)
		m.ShippingCosts = m.ShippingCosts.Add(e.TotalShippingCost)

		if e.Source == s.rules.SendoutSource {
			continue
		}
		switch e.UnitType {
		case domain.UnitBox:
			m.BoxesSold += e.LineItemQuantity
		case domain.UnitBar:
			m.BarsSold += e.LineItemQuantity
		}
	}

	m.Total3PLCosts = m.ShippingCosts.Add(m.ReceivingTotal).Add(m.OtherLogisticsCosts).Add(fee)
	m.GrossProfit = m.GrossRevenue.Sub(m.COGS).Sub(m.Total3PLCosts)

	if m.GrossRevenue.IsZero() {
		m.GrossMargin = decimal.NullDecimal{}
		m.Issues = append(m.Issues, domain.Issue{
			Kind:   domain.IssueDivisionByZeroMetric,
			Detail: "gross margin undefined: gross revenue is zero",
		})
		s.logger.WarnContext(ctx, "Gross margin undefined",
			slog.String("reason", "gross revenue is zero"))
	} else {
		m.GrossMargin = decimal.NewNullDecimal(m.GrossProfit.Div(m.GrossRevenue))
	}

	m.TotalInventorySold = m.BoxesSold*s.rules.BarsPerBox + m.BarsSold
	m.EndingInventory = m.StartingInventory - m.TotalInventorySold

	s.logger.InfoContext(ctx, "Period summary computed",
		slog.Int("entries", len(entries)),
		slog.String("gross_revenue", m.GrossRevenue.StringFixed(2)),
		slog.String("gross_profit", m.GrossProfit.StringFixed(2)),
		slog.Int("boxes_sold", m.BoxesSold),
		slog.Int("bars_sold", m.BarsSold),
		slog.Int("ending_inventory", m.EndingInventory))

	if m.EndingInventory < 0 {
		s.logger.WarnContext(ctx, "Ending inventory is negative",
			slog.Int("starting_inventory", m.StartingInventory),
			slog.Int("total_inventory_sold", m.TotalInventorySold))
	}
	return m
}
