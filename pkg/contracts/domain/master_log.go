package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnitType is the sellable unit an entry was sold or shipped in.
type UnitType string

const (
	UnitBox UnitType = "box"
	UnitBar UnitType = "bar"
	// UnitUnresolved marks rows whose unit could not be determined.
	UnitUnresolved UnitType = ""
)

// Valid reports whether u is a resolved unit type.
func (u UnitType) Valid() bool {
	return u == UnitBox || u == UnitBar
}

// ParseUnitType accepts "box", "bar" or blank (unresolved).
func ParseUnitType(s string) (UnitType, bool) {
	switch UnitType(strings.ToLower(strings.TrimSpace(s))) {
	case UnitBox:
		return UnitBox, true
	case UnitBar:
		return UnitBar, true
	case UnitUnresolved:
		return UnitUnresolved, true
	}
	return UnitUnresolved, false
}

// EntryKind records which reconciliation path produced an entry.
type EntryKind string

const (
	EntryMatched    EntryKind = "matched"
	EntryOrderOnly  EntryKind = "order_only"
	EntryFreeSample EntryKind = "free_sample"
	EntrySendout    EntryKind = "sendout"
)

// LogisticsOnly reports whether the entry came from an unmatched 3PL row.
func (k EntryKind) LogisticsOnly() bool {
	return k == EntryFreeSample || k == EntrySendout
}

// MasterLogEntry is one reconciled row of the Master Log.
type MasterLogEntry struct {
	// Order details
	OrderID          string          `json:"order_id,omitempty"`
	OrderDate        string          `json:"order_date,omitempty"`
	Email            string          `json:"email"`
	UnitType         UnitType        `json:"unit_type"`
	Source           string          `json:"source"`
	LineItemQuantity int             `json:"line_item_quantity"`
	TotalBarsSold    int             `json:"total_bars_sold"`
	LineItemPrice    decimal.Decimal `json:"line_item_price"`

	// Order financials
	Subtotal          decimal.Decimal `json:"subtotal"`
	Discount          decimal.Decimal `json:"discount"`
	ShippingCollected decimal.Decimal `json:"shipping_collected"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`

	// Costs
	BarCOGS           decimal.Decimal `json:"bar_cogs"`
	TotalShippingCost decimal.Decimal `json:"total_shipping_cost"`

	Kind   EntryKind `json:"kind"`
	Issues []Issue   `json:"issues,omitempty"`
}

// Flag appends a row-level annotation.
func (e *MasterLogEntry) Flag(kind IssueKind, detail string) {
	e.Issues = append(e.Issues, Issue{Kind: kind, Detail: detail})
}

// HasIssue reports whether the entry carries an annotation of the given kind.
func (e MasterLogEntry) HasIssue(kind IssueKind) bool {
	for _, is := range e.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

// ComputedTotal is subtotal + shipping collected + tax.
func (e MasterLogEntry) ComputedTotal() decimal.Decimal {
	return e.Subtotal.Add(e.ShippingCollected).Add(e.Tax)
}

// ZeroSendout clears every field a sendout must not contribute to revenue,
// COGS or units sold. Shipping cost and quantity are left as they are.
func (e *MasterLogEntry) ZeroSendout() {
	e.TotalBarsSold = 0
	e.LineItemPrice = decimal.Zero
	e.Subtotal = decimal.Zero
	e.Discount = decimal.Zero
	e.ShippingCollected = decimal.Zero
	e.Tax = decimal.Zero
	e.Total = decimal.Zero
	e.BarCOGS = decimal.Zero
}
