package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Thresholds splits a per-unit price into box, bar or the ambiguous band
// between them. Prices strictly above BoxAbove are boxes, strictly below
// BarBelow are bars; anything in [BarBelow, BoxAbove] resolves to Ambiguous.
type Thresholds struct {
	BoxAbove  decimal.Decimal
	BarBelow  decimal.Decimal
	Ambiguous UnitType
}

// Classify returns the unit type for price and whether it fell in the
// ambiguous band.
func (t Thresholds) Classify(price decimal.Decimal) (UnitType, bool) {
	switch {
	case price.GreaterThan(t.BoxAbove):
		return UnitBox, false
	case price.LessThan(t.BarBelow):
		return UnitBar, false
	default:
		return t.Ambiguous, true
	}
}

// ReconcileRules is the business configuration shared by the reconciler and
// the summarizer. Build it with NewReconcileRules or DefaultReconcileRules and
// treat it as read-only.
type ReconcileRules struct {
	PerBarCOGS decimal.Decimal
	BarsPerBox int

	Orders  Thresholds
	Samples Thresholds

	sendoutKeywords []string

	FreeSampleEmail  string
	FreeSampleSource string
	SendoutEmail     string
	SendoutSource    string
}

// DefaultReconcileRules returns the rules the business has used historically.
func DefaultReconcileRules() ReconcileRules {
	return NewReconcileRules(ReconcileRules{
		PerBarCOGS: decimal.RequireFromString("2.52"),
		BarsPerBox: 7,
		Orders: Thresholds{
			BoxAbove:  decimal.NewFromInt(20),
			BarBelow:  decimal.NewFromInt(7),
			Ambiguous: UnitBar,
		},
		Samples: Thresholds{
			BoxAbove:  decimal.NewFromInt(20),
			BarBelow:  decimal.NewFromInt(10),
			Ambiguous: UnitBox,
		},
		FreeSampleEmail:  "FREE SAMPLES",
		FreeSampleSource: "free_sample",
		SendoutEmail:     "SENT TO SALES TEAM",
		SendoutSource:    "sales_team",
	}, []string{"gtm", "sales team", "sales_team", "gtm campaign", "marketing"})
}

// NewReconcileRules copies base and installs a lower-cased private copy of
// the sendout keywords.
func NewReconcileRules(base ReconcileRules, sendoutKeywords []string) ReconcileRules {
	r := base
	r.sendoutKeywords = make([]string, 0, len(sendoutKeywords))
	for _, kw := range sendoutKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			r.sendoutKeywords = append(r.sendoutKeywords, kw)
		}
	}
	return r
}

// SendoutKeywords returns a copy of the configured keywords.
func (r ReconcileRules) SendoutKeywords() []string {
	out := make([]string, len(r.sendoutKeywords))
	copy(out, r.sendoutKeywords)
	return out
}

// IsSendout reports whether a 3PL description marks an internal shipment.
func (r ReconcileRules) IsSendout(description string) bool {
	d := strings.ToLower(description)
	for _, kw := range r.sendoutKeywords {
		if strings.Contains(d, kw) {
			return true
		}
	}
	return false
}

// BarsFor converts a quantity of the given unit into bars.
func (r ReconcileRules) BarsFor(unit UnitType, qty int) int {
	switch unit {
	case UnitBox:
		return qty * r.BarsPerBox
	case UnitBar:
		return qty
	}
	return 0
}

// COGSFor prices a number of bars at the per-bar cost.
func (r ReconcileRules) COGSFor(bars int) decimal.Decimal {
	return r.PerBarCOGS.Mul(decimal.NewFromInt(int64(bars)))
}
