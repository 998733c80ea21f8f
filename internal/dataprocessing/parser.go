package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// Order export columns, normalized.
const (
	colOrderName     = "name"
	colPaidAt        = "paid at"
	colCreatedAt     = "created at"
	colEmail         = "email"
	colSource        = "source"
	colLineItemQty   = "lineitem quantity"
	colLineItemPrice = "lineitem price"
	colSubtotal      = "subtotal"
	colDiscount      = "discount amount"
	colShipping      = "shipping"
	colTaxes         = "taxes"
	colTotal         = "total"
)

// 3PL export columns, normalized.
const (
	colType             = "type"
	colStoreOrderNumber = "store order number"
	colOrderCode        = "order code"
	colShipDate         = "actual shipment date"
	colTotalQuantity    = "total quantity"
	colTotalPrice       = "total price"
	colHandlingFee      = "handling fee"
	colTotalShipping    = "total shipping cost"
	colPackaging        = "packaging"
	colReceiving        = "receiving"
	colTotalTax         = "total tax"
	colCustomDiscount   = "custom discount"
	colLTLFreight       = "ltl freight"
	colLabelFee         = "label fee"
	colReturns          = "returns"
	colStorage          = "storage"
)

var (
	orderRequiredColumns     = []string{colOrderName, colLineItemQty, colLineItemPrice}
	logisticsRequiredColumns = []string{colStoreOrderNumber, colTotalQuantity, colTotalPrice}

	// descriptionColumns are free-text 3PL columns searched for sendout keywords.
	descriptionColumns = []string{"description", "notes", "note", "label", "reference", "customer reference", "memo"}

	// otherCostColumns are billed on non-shipment rows (freight, storage,
	// returns). Receiving is summed separately over every row.
	otherCostColumns = []string{
		colHandlingFee, colTotalShipping, colLTLFreight, colPackaging,
		colLabelFee, colReturns, colStorage,
	}
)

// ParserConfig controls how 3PL exports are filtered.
type ParserConfig struct {
	// ShipmentType keeps only rows whose Type column equals this value
	// (case-insensitive). Empty keeps every row.
	ShipmentType string
}

// Parser reads the order and 3PL exports into domain records.
type Parser struct {
	logger *slog.Logger
	config ParserConfig
}

// NewParser creates a new parser
func NewParser(logger *slog.Logger, config ParserConfig) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logger.With(slog.String("component", "parser")),
		config: config,
	}
}

// LogisticsExport is the parsed content of one 3PL export.
type LogisticsExport struct {
	Sheet   string
	Records []domain.LogisticsRecord

	// ReceivingTotal sums the Receiving column over every row of the sheet,
	// including rows dropped by the shipment type filter.
	ReceivingTotal decimal.Decimal

	// OtherCosts sums the cost columns of rows dropped by the shipment type
	// filter, apart from Receiving.
	OtherCosts decimal.Decimal

	FilteredRows int
}

// ParseOrdersFile reads the e-commerce order export.
func (p *Parser) ParseOrdersFile(ctx context.Context, path string) ([]domain.OrderRecord, error) {
	sheets, err := loadSheets(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read orders export", err).
			WithContext("file", path)
	}

	t, missing := findTable(sheets, orderRequiredColumns)
	if t == nil {
		return nil, apperrors.NewParsingError("orders export is missing required columns", nil).
			WithContext("file", path).
			WithContext("columns", strings.Join(missing, ", "))
	}

	cols := t.columns
	orders := make([]domain.OrderRecord, 0, len(t.rows))
	for i, row := range t.rows {
		if isBlankRow(row) {
			continue
		}
		rowNum := t.headerRow + i + 2

		qtyRaw := cols.cell(row, colLineItemQty)
		qty, ok := parseQuantity(qtyRaw)
		if !ok && qtyRaw != "" {
			p.logger.WarnContext(ctx, "Unreadable line item quantity",
				slog.Int("row", rowNum),
				slog.String("value", qtyRaw))
		}

		orders = append(orders, domain.OrderRecord{
			OrderID:          cols.cell(row, colOrderName),
			OrderDate:        cols.cell(row, colPaidAt, colCreatedAt),
			Email:            cols.cell(row, colEmail),
			Source:           cols.cell(row, colSource),
			LineItemQuantity: qty,
			LineItemPrice:    amountOrZero(cols.cell(row, colLineItemPrice)),
			Subtotal:         amountOrZero(cols.cell(row, colSubtotal)),
			Discount:         amountOrZero(cols.cell(row, colDiscount)),
			Shipping:         amountOrZero(cols.cell(row, colShipping)),
			Tax:              amountOrZero(cols.cell(row, colTaxes)),
			Total:            amountOrZero(cols.cell(row, colTotal)),
			Row:              rowNum,
		})
	}

	p.logger.InfoContext(ctx, "Parsed orders export",
		slog.String("file", path),
		slog.Int("rows", len(orders)))
	return orders, nil
}

// ParseLogisticsFile reads the 3PL export from xlsx or CSV.
func (p *Parser) ParseLogisticsFile(ctx context.Context, path string) (*LogisticsExport, error) {
	sheets, err := loadSheets(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read 3PL export", err).
			WithContext("file", path)
	}

	t, missing := findTable(sheets, logisticsRequiredColumns)
	if t == nil {
		return nil, apperrors.NewParsingError("3PL export is missing required columns", nil).
			WithContext("file", path).
			WithContext("columns", strings.Join(missing, ", "))
	}

	cols := t.columns
	filterType := strings.TrimSpace(p.config.ShipmentType)
	applyFilter := filterType != "" && cols.has(colType)

	export := &LogisticsExport{
		Sheet:          t.sheet,
		ReceivingTotal: decimal.Zero,
		OtherCosts:     decimal.Zero,
	}

	for i, row := range t.rows {
		if isBlankRow(row) {
			continue
		}
		rowNum := t.headerRow + i + 2

		receiving := optionalAmount(cols.cell(row, colReceiving))
		export.ReceivingTotal = export.ReceivingTotal.Add(domain.OrZero(receiving))

		if applyFilter && !strings.EqualFold(cols.cell(row, colType), filterType) {
			export.FilteredRows++
			for _, name := range otherCostColumns {
				export.OtherCosts = export.OtherCosts.Add(amountOrZero(cols.cell(row, name)))
			}
			continue
		}

		qtyRaw := cols.cell(row, colTotalQuantity)
		qty, ok := parseQuantity(qtyRaw)
		if !ok && qtyRaw != "" {
			p.logger.WarnContext(ctx, "Unreadable 3PL quantity",
				slog.Int("row", rowNum),
				slog.String("value", qtyRaw))
		}

		export.Records = append(export.Records, domain.LogisticsRecord{
			StoreOrderNumber: cols.cell(row, colStoreOrderNumber),
			OrderCode:        cols.cell(row, colOrderCode),
			ShipDate:         cols.cell(row, colShipDate),
			TotalQuantity:    qty,
			TotalPrice:       optionalAmount(cols.cell(row, colTotalPrice)),
			HandlingFee:      amountOrZero(cols.cell(row, colHandlingFee)),
			TotalShipping:    amountOrZero(cols.cell(row, colTotalShipping)),
			Packaging:        amountOrZero(cols.cell(row, colPackaging)),
			Receiving:        receiving,
			Tax:              optionalAmount(cols.cell(row, colTotalTax)),
			Discount:         optionalAmount(cols.cell(row, colCustomDiscount)),
			Description:      description(cols, row),
			Row:              rowNum,
		})
	}

	p.logger.InfoContext(ctx, "Parsed 3PL export",
		slog.String("file", path),
		slog.String("sheet", t.sheet),
		slog.Int("shipments", len(export.Records)),
		slog.Int("filtered_rows", export.FilteredRows),
		slog.String("receiving_total", export.ReceivingTotal.StringFixed(2)),
		slog.String("other_costs", export.OtherCosts.StringFixed(2)))
	return export, nil
}

// description joins every non-empty free-text column so a keyword in any of
// them is seen.
func description(cols columnMap, row []string) string {
	var parts []string
	for _, name := range descriptionColumns {
		if v := cols.cell(row, name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}
