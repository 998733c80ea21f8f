package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// totalTolerance is how far an order's exported total may drift from
// subtotal + shipping + tax before the entry is flagged.
var totalTolerance = decimal.RequireFromString("0.01")

// identifierPattern accepts "#1001", "1001" and spreadsheet floats like "1001.0".
var identifierPattern = regexp.MustCompile(`^#?\s*(\d+)(?:\.0+)?$`)

type keyState int

const (
	keyAbsent keyState = iota
	keyValid
	keyMalformed
)

// normalizeKey converts an order name or store order number to "#<digits>".
func normalizeKey(raw string) (string, keyState) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return "", keyAbsent
	}
	m := identifierPattern.FindStringSubmatch(s)
	if m == nil {
		return "", keyMalformed
	}
	return "#" + m[1], keyValid
}

// Reconciler merges order line items with 3PL shipment rows into the
// Master Log.
type Reconciler struct {
	rules  domain.ReconcileRules
	logger *slog.Logger
}

// NewReconciler creates a reconciler bound to rules.
func NewReconciler(rules domain.ReconcileRules, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		rules:  rules,
		logger: logger.With(slog.String("component", "reconciler")),
	}
}

// shipmentGroup is every 3PL row sharing one store order number.
type shipmentGroup struct {
	rows     []int
	assigned bool
}

// Reconcile performs a full outer join of orders and logistics rows on the
// normalized order identifier. Every order line yields exactly one entry, in
// input order, followed by one entry per 3PL row that matched no order.
// Row-level problems are attached to entries as issues; only empty input on
// both sides is an error.
func (r *Reconciler) Reconcile(ctx context.Context, orders []domain.OrderRecord, logistics []domain.LogisticsRecord) ([]domain.MasterLogEntry, error) {
	if len(orders) == 0 && len(logistics) == 0 {
		return nil, apperrors.NewAppValidationError("nothing to reconcile: orders and 3PL exports are both empty")
	}

	groups := make(map[string]*shipmentGroup)
	for i, rec := range logistics {
		key, state := normalizeKey(rec.StoreOrderNumber)
		if state != keyValid {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &shipmentGroup{}
			groups[key] = g
		}
		g.rows = append(g.rows, i)
	}

	orderKeys := make(map[string]struct{}, len(orders))
	entries := make([]domain.MasterLogEntry, 0, len(orders)+len(logistics))

	for _, o := range orders {
		entry := r.fromOrder(o)

		key, state := normalizeKey(o.OrderID)
		switch state {
		case keyMalformed:
			entry.Flag(domain.IssueMalformedIdentifier, fmt.Sprintf("order id %q", o.OrderID))
		case keyAbsent:
			entry.Flag(domain.IssueMissingJoinKey, "order has no id")
		case keyValid:
			orderKeys[key] = struct{}{}
			entry.OrderID = key
			if g, ok := groups[key]; ok {
				entry.Kind = domain.EntryMatched
				// Shipping cost lands on the first line item only so
				// multi-line orders are not charged once per line.
				if !g.assigned {
					g.assigned = true
					entry.TotalShippingCost = groupShippingCost(logistics, g.rows)
					if len(g.rows) > 1 {
						entry.Flag(domain.IssueSplitShipment, fmt.Sprintf("%d 3PL rows", len(g.rows)))
					}
				}
			}
		}

		entries = append(entries, entry)
	}

	for _, rec := range logistics {
		key, state := normalizeKey(rec.StoreOrderNumber)
		if state == keyValid {
			if _, matched := orderKeys[key]; matched {
				continue
			}
		}
		entries = append(entries, r.fromLogistics(rec, key, state))
	}

	r.logSummary(ctx, entries)
	return entries, nil
}

func groupShippingCost(logistics []domain.LogisticsRecord, rows []int) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range rows {
		sum = sum.Add(logistics[i].ShippingCost())
	}
	return sum
}

func (r *Reconciler) fromOrder(o domain.OrderRecord) domain.MasterLogEntry {
	entry := domain.MasterLogEntry{
		OrderID:           strings.TrimSpace(o.OrderID),
		OrderDate:         o.OrderDate,
		Email:             o.Email,
		Source:            o.Source,
		LineItemQuantity:  o.LineItemQuantity,
		LineItemPrice:     o.LineItemPrice,
		Subtotal:          o.Subtotal,
		Discount:          o.Discount,
		ShippingCollected: o.Shipping,
		Tax:               o.Tax,
		TotalShippingCost: decimal.Zero,
		Kind:              domain.EntryOrderOnly,
	}

	if o.LineItemQuantity < 0 {
		entry.Flag(domain.IssueNegativeQuantity, fmt.Sprintf("line item quantity %d", o.LineItemQuantity))
	}

	unit, ambiguous := r.rules.Orders.Classify(o.LineItemPrice)
	if ambiguous {
		entry.Flag(domain.IssueUnresolvedUnitType, ambiguousDetail("line item price", o.LineItemPrice, unit))
	}
	entry.UnitType = unit
	entry.TotalBarsSold = r.rules.BarsFor(unit, o.LineItemQuantity)
	entry.BarCOGS = r.rules.COGSFor(entry.TotalBarsSold)
	entry.Total = entry.ComputedTotal()

	if entry.Total.Sub(o.Total).Abs().GreaterThan(totalTolerance) {
		entry.Flag(domain.IssueTotalMismatch, fmt.Sprintf("export total %s, computed %s",
			o.Total.StringFixed(2), entry.Total.StringFixed(2)))
	}
	return entry
}

// fromLogistics builds a free sample or sendout entry for a 3PL row with no
// matching order.
func (r *Reconciler) fromLogistics(rec domain.LogisticsRecord, key string, state keyState) domain.MasterLogEntry {
	entry := domain.MasterLogEntry{
		OrderID:           rec.OrderCode,
		OrderDate:         rec.ShipDate,
		LineItemQuantity:  rec.TotalQuantity,
		LineItemPrice:     decimal.Zero,
		Subtotal:          decimal.Zero,
		ShippingCollected: decimal.Zero,
		Tax:               domain.OrZero(rec.Tax),
		Discount:          domain.OrZero(rec.Discount),
		TotalShippingCost: rec.ShippingCost(),
	}

	switch state {
	case keyValid:
		entry.OrderID = key
		entry.Flag(domain.IssueUnmatchedStoreOrder, fmt.Sprintf("store order %s has no order line", key))
	case keyMalformed:
		entry.Flag(domain.IssueMalformedIdentifier, fmt.Sprintf("store order number %q", rec.StoreOrderNumber))
	}
	if rec.TotalQuantity < 0 {
		entry.Flag(domain.IssueNegativeQuantity, fmt.Sprintf("3PL quantity %d", rec.TotalQuantity))
	}

	sendout := r.rules.IsSendout(rec.Description)
	if sendout {
		entry.Kind = domain.EntrySendout
		entry.Email = r.rules.SendoutEmail
		entry.Source = r.rules.SendoutSource
	} else {
		entry.Kind = domain.EntryFreeSample
		entry.Email = r.rules.FreeSampleEmail
		entry.Source = r.rules.FreeSampleSource
	}

	price, ok := rec.UnitPrice()
	switch {
	case !ok && state == keyAbsent:
		entry.UnitType = domain.UnitUnresolved
		entry.Flag(domain.IssueMissingJoinKey, unresolvableDetail(rec))
	case !ok:
		entry.UnitType = domain.UnitUnresolved
		entry.Flag(domain.IssueUnresolvedUnitType, unresolvableDetail(rec))
	default:
		unit, ambiguous := r.rules.Samples.Classify(price)
		if ambiguous {
			entry.Flag(domain.IssueUnresolvedUnitType, ambiguousDetail("unit price", price, unit))
		}
		entry.UnitType = unit
		entry.LineItemPrice = price.Round(2)
	}

	entry.TotalBarsSold = r.rules.BarsFor(entry.UnitType, entry.LineItemQuantity)
	entry.BarCOGS = r.rules.COGSFor(entry.TotalBarsSold)
	entry.Total = entry.ComputedTotal()

	if sendout {
		entry.ZeroSendout()
	}
	return entry
}

func ambiguousDetail(what string, price decimal.Decimal, unit domain.UnitType) string {
	resolved := string(unit)
	if !unit.Valid() {
		resolved = "unresolved"
	}
	return fmt.Sprintf("%s %s in ambiguous band, treated as %s", what, price.StringFixed(2), resolved)
}

func unresolvableDetail(rec domain.LogisticsRecord) string {
	price := "blank"
	if rec.TotalPrice.Valid {
		price = rec.TotalPrice.Decimal.StringFixed(2)
	}
	return fmt.Sprintf("quantity %d, total price %s", rec.TotalQuantity, price)
}

func (r *Reconciler) logSummary(ctx context.Context, entries []domain.MasterLogEntry) {
	counts := make(map[domain.EntryKind]int)
	flagged, logisticsOnly := 0, 0
	for _, e := range entries {
		counts[e.Kind]++
		if e.Kind.LogisticsOnly() {
			logisticsOnly++
		}
		if len(e.Issues) > 0 {
			flagged++
		}
	}

	r.logger.InfoContext(ctx, "Master log reconciled",
		slog.Int("entries", len(entries)),
		slog.Int("matched", counts[domain.EntryMatched]),
		slog.Int("order_only", counts[domain.EntryOrderOnly]),
		slog.Int("free_samples", counts[domain.EntryFreeSample]),
		slog.Int("sendouts", counts[domain.EntrySendout]),
		slog.Int("logistics_only", logisticsOnly),
		slog.Int("flagged", flagged))

	if flagged > 0 {
		r.logger.WarnContext(ctx, "Master log has entries needing review",
			slog.Int("flagged", flagged))
	}
}
