package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodInputs are the scalars supplied by the operator for a run.
type PeriodInputs struct {
	StartingInventory    int             `json:"starting_inventory" validate:"gte=0"`
	PaymentProcessingFee decimal.Decimal `json:"payment_processing_fee" validate:"decimal_gte0,decimal_2dp"`
	ReceivingTotal       decimal.Decimal `json:"receiving_total" validate:"decimal_gte0"`

	// OtherLogisticsCosts are 3PL charges outside shipments and receiving,
	// such as freight, storage, label fees and returns.
	OtherLogisticsCosts decimal.Decimal `json:"other_3pl_costs"`
}

// SummaryMetrics is the financial and inventory summary of one period.
type SummaryMetrics struct {
	Revenue              decimal.Decimal     `json:"revenue"`
	ShippingCollected    decimal.Decimal     `json:"shipping_collected"`
	GrossRevenue         decimal.Decimal     `json:"gross_revenue"`
	TaxesCollected       decimal.Decimal     `json:"taxes_collected"`
	COGS                 decimal.Decimal     `json:"cogs"`
	ShippingCosts        decimal.Decimal     `json:"shipping_costs"`
	ReceivingTotal       decimal.Decimal     `json:"receiving_total"`
	OtherLogisticsCosts  decimal.Decimal     `json:"other_3pl_costs"`
	PaymentProcessingFee decimal.Decimal     `json:"payment_processing_fee"`
	Total3PLCosts        decimal.Decimal     `json:"total_3pl_costs"`
	GrossProfit          decimal.Decimal     `json:"gross_profit"`
	GrossMargin          decimal.NullDecimal `json:"gross_margin"`

	StartingInventory  int `json:"starting_inventory"`
	BoxesSold          int `json:"boxes_sold"`
	BarsSold           int `json:"bars_sold"`
	TotalInventorySold int `json:"total_inventory_sold"`
	EndingInventory    int `json:"ending_inventory"`

	Issues []Issue `json:"issues,omitempty"`
}

// Period is the reporting window covered by a report.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Known reports whether both bounds are set.
func (p Period) Known() bool {
	return !p.Start.IsZero() && !p.End.IsZero()
}

// Label renders the period as MM/DD/YY-MM/DD/YY.
func (p Period) Label() string {
	if !p.Known() {
		return ""
	}
	return p.Start.Format("01/02/06") + "-" + p.End.Format("01/02/06")
}
