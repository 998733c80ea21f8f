package dataprocessing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/shared/testutil"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

func price(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func newTestReconciler(t *testing.T) *Reconciler {
	logger, _ := testutil.NewTestLogger(t)
	return NewReconciler(domain.DefaultReconcileRules(), logger)
}

func scenarioOrder() domain.OrderRecord {
	return domain.OrderRecord{
		OrderID:          "#1001",
		OrderDate:        "2025-11-17",
		Email:            "a@example.com",
		Source:           "web",
		LineItemQuantity: 2,
		LineItemPrice:    d("25"),
		Subtotal:         d("50"),
		Discount:         decimal.Zero,
		Shipping:         d("5"),
		Tax:              d("4"),
		Total:            d("59"),
	}
}

func scenarioShipment() domain.LogisticsRecord {
	return domain.LogisticsRecord{
		StoreOrderNumber: "#1001",
		OrderCode:        "SO-1",
		TotalQuantity:    2,
		TotalPrice:       price("50"),
		HandlingFee:      d("1"),
		TotalShipping:    d("3"),
		Packaging:        d("1"),
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in        string
		want      string
		wantState keyState
	}{
		{in: "#1001", want: "#1001", wantState: keyValid},
		{in: " 1001 ", want: "#1001", wantState: keyValid},
		{in: "1001.0", want: "#1001", wantState: keyValid},
		{in: "# 1001", want: "#1001", wantState: keyValid},
		{in: "", wantState: keyAbsent},
		{in: "NaN", wantState: keyAbsent},
		{in: "ORDER-1001", wantState: keyMalformed},
		{in: "#10a1", wantState: keyMalformed},
		{in: "1001.5", wantState: keyMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, state := normalizeKey(tt.in)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcileMatchedOrder(t *testing.T) {
	r := newTestReconciler(t)

	entries, err := r.Reconcile(context.Background(),
		[]domain.OrderRecord{scenarioOrder()},
		[]domain.LogisticsRecord{scenarioShipment()})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, domain.EntryMatched, e.Kind)
	assert.Equal(t, "#1001", e.OrderID)
	assert.Equal(t, domain.UnitBox, e.UnitType)
	assert.Equal(t, 14, e.TotalBarsSold)
	assert.True(t, d("59").Equal(e.Total))
	assert.True(t, d("35.28").Equal(e.BarCOGS))
	assert.True(t, d("5").Equal(e.TotalShippingCost))
	assert.Empty(t, e.Issues)
}

func TestReconcileFreeSample(t *testing.T) {
	r := newTestReconciler(t)

	entries, err := r.Reconcile(context.Background(), nil, []domain.LogisticsRecord{{
		OrderCode:     "SO-2",
		ShipDate:      "11/18/2025",
		TotalQuantity: 2,
		TotalPrice:    price("30"),
		HandlingFee:   d("2"),
		TotalShipping: d("4"),
		Description:   "routine sample",
	}})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, domain.EntryFreeSample, e.Kind)
	assert.Equal(t, "FREE SAMPLES", e.Email)
	assert.Equal(t, "free_sample", e.Source)
	assert.Equal(t, "SO-2", e.OrderID)
	assert.Equal(t, "11/18/2025", e.OrderDate)
	assert.Equal(t, domain.UnitBox, e.UnitType)
	assert.Equal(t, 14, e.TotalBarsSold)
	assert.True(t, d("35.28").Equal(e.BarCOGS))
	assert.True(t, d("6").Equal(e.TotalShippingCost))
	assert.True(t, e.Total.IsZero())
	assert.True(t, e.HasIssue(domain.IssueUnresolvedUnitType), "unit price 15 is in the ambiguous band")
}

func TestReconcileSendout(t *testing.T) {
	r := newTestReconciler(t)

	entries, err := r.Reconcile(context.Background(), nil, []domain.LogisticsRecord{{
		TotalQuantity: 1,
		TotalPrice:    price("8"),
		HandlingFee:   d("2"),
		TotalShipping: d("3.5"),
		Packaging:     d("1"),
		Tax:           price("0.64"),
		Description:   "GTM campaign Q3",
	}})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, domain.EntrySendout, e.Kind)
	assert.Equal(t, "SENT TO SALES TEAM", e.Email)
	assert.Equal(t, "sales_team", e.Source)
	assert.Equal(t, domain.UnitBar, e.UnitType)
	assert.Equal(t, 1, e.LineItemQuantity)
	assert.Equal(t, 0, e.TotalBarsSold)
	for name, v := range map[string]decimal.Decimal{
		"line_item_price":    e.LineItemPrice,
		"subtotal":           e.Subtotal,
		"discount":           e.Discount,
		"shipping_collected": e.ShippingCollected,
		"tax":                e.Tax,
		"total":              e.Total,
		"bar_cogs":           e.BarCOGS,
	} {
		assert.True(t, v.IsZero(), "%s should be zero, got %s", name, v)
	}
	assert.True(t, d("6.5").Equal(e.TotalShippingCost))
}

func TestReconcileRowLevelIssues(t *testing.T) {
	orders := []domain.OrderRecord{
		{OrderID: "#1003", LineItemQuantity: 1, LineItemPrice: d("28"), Subtotal: d("28"), Total: d("28")},
		{OrderID: "#1003", LineItemQuantity: 3, LineItemPrice: d("4")},
		{OrderID: "ORDER-X", LineItemQuantity: 1, LineItemPrice: d("4"), Subtotal: d("4"), Total: d("4")},
		{OrderID: "#1004", LineItemQuantity: 1, LineItemPrice: d("12"), Subtotal: d("12"), Total: d("15")},
		{OrderID: "1005.0", LineItemQuantity: 1, LineItemPrice: d("3"), Subtotal: d("3"), Total: d("3")},
	}
	logistics := []domain.LogisticsRecord{
		{StoreOrderNumber: "#1003", TotalQuantity: 1, TotalPrice: price("28"), HandlingFee: d("1"), TotalShipping: d("2")},
		{StoreOrderNumber: "1003", TotalQuantity: 3, TotalPrice: price("12"), TotalShipping: d("4")},
		{StoreOrderNumber: "#1005", TotalQuantity: 1, TotalPrice: price("3"), TotalShipping: d("2.5")},
		{StoreOrderNumber: "#9999", OrderCode: "SO-9", TotalQuantity: 1, TotalPrice: price("25"), TotalShipping: d("3")},
		{StoreOrderNumber: "#12a", TotalQuantity: 2, TotalPrice: price("6"), Packaging: d("1")},
		{TotalQuantity: 0, TotalPrice: price("10"), HandlingFee: d("2"), Description: "mystery"},
	}

	entries, err := newTestReconciler(t).Reconcile(context.Background(), orders, logistics)
	require.NoError(t, err)
	require.Len(t, entries, 8)

	t.Run("split shipment lands on first line", func(t *testing.T) {
		first, second := entries[0], entries[1]
		assert.Equal(t, domain.EntryMatched, first.Kind)
		assert.True(t, d("7").Equal(first.TotalShippingCost))
		assert.True(t, first.HasIssue(domain.IssueSplitShipment))
		assert.Equal(t, domain.EntryMatched, second.Kind)
		assert.True(t, second.TotalShippingCost.IsZero())
		assert.Equal(t, 3, second.TotalBarsSold)
	})

	t.Run("malformed order id stays unmatched", func(t *testing.T) {
		e := entries[2]
		assert.Equal(t, domain.EntryOrderOnly, e.Kind)
		assert.Equal(t, "ORDER-X", e.OrderID)
		assert.True(t, e.HasIssue(domain.IssueMalformedIdentifier))
		assert.True(t, e.TotalShippingCost.IsZero())
	})

	t.Run("ambiguous order price and total mismatch", func(t *testing.T) {
		e := entries[3]
		assert.Equal(t, domain.EntryOrderOnly, e.Kind)
		assert.Equal(t, domain.UnitBar, e.UnitType)
		assert.True(t, e.HasIssue(domain.IssueUnresolvedUnitType))
		assert.True(t, e.HasIssue(domain.IssueTotalMismatch))
		assert.True(t, d("12").Equal(e.Total))
	})

	t.Run("float identifier joins", func(t *testing.T) {
		e := entries[4]
		assert.Equal(t, "#1005", e.OrderID)
		assert.Equal(t, domain.EntryMatched, e.Kind)
		assert.True(t, d("2.5").Equal(e.TotalShippingCost))
	})

	t.Run("store order without order line", func(t *testing.T) {
		e := entries[5]
		assert.Equal(t, "#9999", e.OrderID)
		assert.Equal(t, domain.EntryFreeSample, e.Kind)
		assert.True(t, e.HasIssue(domain.IssueUnmatchedStoreOrder))
		assert.Equal(t, domain.UnitBox, e.UnitType)
	})

	t.Run("malformed store order number", func(t *testing.T) {
		e := entries[6]
		assert.Equal(t, domain.EntryFreeSample, e.Kind)
		assert.True(t, e.HasIssue(domain.IssueMalformedIdentifier))
		assert.Equal(t, domain.UnitBar, e.UnitType)
		assert.True(t, d("3").Equal(e.LineItemPrice))
	})

	t.Run("unclassifiable row kept with shipping cost", func(t *testing.T) {
		e := entries[7]
		assert.Equal(t, domain.UnitUnresolved, e.UnitType)
		assert.True(t, e.HasIssue(domain.IssueMissingJoinKey))
		assert.Equal(t, 0, e.TotalBarsSold)
		assert.True(t, d("2").Equal(e.TotalShippingCost))
	})
}

func TestReconcileAmbiguousPolicyUnresolved(t *testing.T) {
	rules := domain.DefaultReconcileRules()
	rules.Orders.Ambiguous = domain.UnitUnresolved

	r := NewReconciler(rules, nil)
	entries, err := r.Reconcile(context.Background(), []domain.OrderRecord{
		{OrderID: "#1", LineItemQuantity: 2, LineItemPrice: d("15")},
	}, nil)
	require.NoError(t, err)

	e := entries[0]
	assert.Equal(t, domain.UnitUnresolved, e.UnitType)
	assert.Equal(t, 0, e.TotalBarsSold)
	assert.True(t, e.BarCOGS.IsZero())
	require.Len(t, e.Issues, 1)
	assert.Contains(t, e.Issues[0].Detail, "treated as unresolved")
}

func TestReconcileNegativeQuantity(t *testing.T) {
	refund := scenarioOrder()
	refund.OrderID = "#1002"
	refund.LineItemQuantity = -2
	refund.Subtotal = d("-50")
	refund.Shipping = decimal.Zero
	refund.Tax = decimal.Zero
	refund.Total = d("-50")

	entries, err := newTestReconciler(t).Reconcile(context.Background(),
		[]domain.OrderRecord{refund},
		[]domain.LogisticsRecord{{TotalQuantity: -1, TotalPrice: price("8"), HandlingFee: d("2"), Description: "returned sample"}})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	order := entries[0]
	assert.True(t, order.HasIssue(domain.IssueNegativeQuantity))
	assert.Equal(t, domain.UnitBox, order.UnitType)
	assert.Equal(t, -14, order.TotalBarsSold, "refund lines keep their sign")
	assert.False(t, order.HasIssue(domain.IssueTotalMismatch))

	row := entries[1]
	assert.True(t, row.HasIssue(domain.IssueNegativeQuantity))
	assert.Equal(t, domain.UnitUnresolved, row.UnitType)
	assert.True(t, d("2").Equal(row.TotalShippingCost))
}

func TestReconcileEmptyInputs(t *testing.T) {
	_, err := newTestReconciler(t).Reconcile(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestReconcileLogsCounts(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	r := NewReconciler(domain.DefaultReconcileRules(), logger)

	_, err := r.Reconcile(context.Background(),
		[]domain.OrderRecord{scenarioOrder()},
		[]domain.LogisticsRecord{scenarioShipment(), {TotalQuantity: 0, Description: "gtm"}})
	require.NoError(t, err)

	assert.True(t, handler.ContainsMessage("Master log reconciled"))
	assert.True(t, handler.ContainsAttr("matched", 1))
	assert.True(t, handler.ContainsAttr("sendouts", 1))
	assert.True(t, handler.ContainsAttr("logistics_only", 1))
	assert.True(t, handler.ContainsMessage("Master log has entries needing review"))
}
