package report

// Sheet names.
const (
	MasterLogSheet        = "Master Log"
	FinancialSummarySheet = "Financial Summary"
)

// NotApplicable is shown for metrics that could not be computed.
const NotApplicable = "N/A"

// Master Log column headers.
const (
	ColOrderID            = "order_id"
	ColOrderDate          = "order_date"
	ColEmail              = "email"
	ColUnitType           = "unit_type"
	ColSource             = "source"
	ColLineItemQuantity   = "line_item_quantity"
	ColTotalBarsSold      = "total_bars_sold"
	ColLineItemPrice      = "line_item_price"
	ColSubtotal           = "subtotal"
	ColDiscount           = "discount"
	ColShippingCollected  = "shipping_collected"
	ColTax                = "tax"
	ColTotal              = "total"
	ColBarCOGS            = "bar_cogs"
	ColTotalShippingCost  = "total_shipping_cost"
	ColFlags              = "flags"
	ColSourcePeriodReport = "source_period_report"
)

// MasterLogColumns is the fixed column order of the Master Log sheet.
var MasterLogColumns = []string{
	ColOrderID, ColOrderDate, ColEmail, ColUnitType, ColSource,
	ColLineItemQuantity, ColTotalBarsSold, ColLineItemPrice,
	ColSubtotal, ColDiscount, ColShippingCollected, ColTax, ColTotal,
	ColBarCOGS, ColTotalShippingCost, ColFlags,
}

// Financial Summary labels, left block.
const (
	LabelFinancialsTitle = "============== Cumulative Period Financials =============="
	LabelRevenue         = "Revenue"
	LabelShipping        = "+ Shipping collected"
	LabelSeparator       = "-------------------------"
	LabelGrossRevenue    = "Gross Revenue"
	LabelTaxes           = "+ Taxes Collected"
	LabelCOGS            = "- COGS"
	Label3PLCosts        = "- Total 3PL Costs (shipping, receiving, payment processing fee)"
	LabelGrossProfit     = "Gross Profit"
	LabelGrossMargin     = "Gross Margin"
)

// Financial Summary labels, right block.
const (
	LabelInventoryTitle     = "=============== Inventory / Units ==============="
	LabelStartingInventory  = "Starting Inventory (bars)"
	LabelBoxesSold          = "Boxes Sold This Period"
	LabelBarsSold           = "Bars Sold This Period (single bars)"
	LabelTotalInventorySold = "Total Inventory Sold (bars)"
	LabelEndingInventory    = "Weekly Ending Inventory (bars)"
)

// Combined report trailer.
const (
	LabelPeriodsTitle = "Periods combined"
	LabelChecksTitle  = "Balance checks"
	LabelChecksPassed = "All balance checks passed"
)
