package domain

import (
	"github.com/shopspring/decimal"
)

// OrderRecord is one line item row from the e-commerce order export.
type OrderRecord struct {
	OrderID          string          `json:"order_id"`
	OrderDate        string          `json:"order_date"`
	Email            string          `json:"email"`
	Source           string          `json:"source"`
	LineItemQuantity int             `json:"line_item_quantity"`
	LineItemPrice    decimal.Decimal `json:"line_item_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	Shipping         decimal.Decimal `json:"shipping"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`

	// Row is the 1-based row number in the source file, 0 when unknown.
	Row int `json:"row,omitempty"`
}

// LogisticsRecord is one shipment row from the 3PL export.
type LogisticsRecord struct {
	StoreOrderNumber string              `json:"store_order_number,omitempty"`
	OrderCode        string              `json:"order_code,omitempty"`
	ShipDate         string              `json:"ship_date,omitempty"`
	TotalQuantity    int                 `json:"total_quantity"`
	TotalPrice       decimal.NullDecimal `json:"total_price"`
	HandlingFee      decimal.Decimal     `json:"handling_fee"`
	TotalShipping    decimal.Decimal     `json:"total_shipping"`
	Packaging        decimal.Decimal     `json:"packaging"`
	Receiving        decimal.NullDecimal `json:"receiving"`
	Tax              decimal.NullDecimal `json:"tax"`
	Discount         decimal.NullDecimal `json:"discount"`
	Description      string              `json:"description,omitempty"`

	Row int `json:"row,omitempty"`
}

// ShippingCost is the all-in cost the 3PL charged to ship this row.
func (r LogisticsRecord) ShippingCost() decimal.Decimal {
	return r.HandlingFee.Add(r.TotalShipping).Add(r.Packaging)
}

// UnitPrice returns total price divided by quantity. ok is false when the
// row does not carry enough data to compute it.
func (r LogisticsRecord) UnitPrice() (price decimal.Decimal, ok bool) {
	if r.TotalQuantity <= 0 || !r.TotalPrice.Valid {
		return decimal.Zero, false
	}
	return r.TotalPrice.Decimal.Div(decimal.NewFromInt(int64(r.TotalQuantity))), true
}

// OrZero applies the absent-means-zero policy for optional 3PL amounts.
func OrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
