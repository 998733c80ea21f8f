package dataprocessing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/shared/testutil"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

func newTestSummarizer(t *testing.T) (*Summarizer, *testutil.BufferedSlogHandler) {
	logger, handler := testutil.NewTestLogger(t)
	return NewSummarizer(domain.DefaultReconcileRules(), logger), handler
}

func TestSummarizeFormulas(t *testing.T) {
	entries := []domain.MasterLogEntry{
		{
			UnitType: domain.UnitBox, Source: "web", LineItemQuantity: 2, TotalBarsSold: 14,
			Subtotal: d("50"), ShippingCollected: d("5"), Tax: d("4"), Total: d("59"),
			BarCOGS: d("35.28"), TotalShippingCost: d("5"),
		},
		{
			UnitType: domain.UnitBar, Source: "web", LineItemQuantity: 3, TotalBarsSold: 3,
			Subtotal: d("12"), Total: d("12"), BarCOGS: d("7.56"),
		},
		{
			UnitType: domain.UnitBox, Source: "free_sample", LineItemQuantity: 1, TotalBarsSold: 7,
			BarCOGS: d("17.64"), TotalShippingCost: d("6"),
		},
		{
			UnitType: domain.UnitBar, Source: "sales_team", LineItemQuantity: 4,
			TotalShippingCost: d("6.5"),
		},
	}

	s, _ := newTestSummarizer(t)
	m := s.Summarize(context.Background(), entries, domain.PeriodInputs{
		StartingInventory:    1000,
		PaymentProcessingFee: d("3.456"),
		ReceivingTotal:       d("45"),
	})

	assert.True(t, d("62").Equal(m.Revenue), "revenue %s", m.Revenue)
	assert.True(t, d("5").Equal(m.ShippingCollected))
	assert.True(t, d("71").Equal(m.GrossRevenue))
	assert.True(t, d("4").Equal(m.TaxesCollected))
	assert.True(t, d("60.48").Equal(m.COGS))
	assert.True(t, d("17.5").Equal(m.ShippingCosts))
	assert.True(t, d("3.46").Equal(m.PaymentProcessingFee), "fee rounds to cents")
	assert.True(t, d("65.96").Equal(m.Total3PLCosts), "3PL %s", m.Total3PLCosts)
	assert.True(t, d("-55.44").Equal(m.GrossProfit), "profit %s", m.GrossProfit)
	require.True(t, m.GrossMargin.Valid)
	assert.True(t, m.GrossProfit.Div(m.GrossRevenue).Equal(m.GrossMargin.Decimal))

	assert.Equal(t, 3, m.BoxesSold)
	assert.Equal(t, 3, m.BarsSold, "sendout bars are not sold")
	assert.Equal(t, 24, m.TotalInventorySold)
	assert.Equal(t, 976, m.EndingInventory)
	assert.Empty(t, m.Issues)
}

func TestSummarizeOtherLogisticsCosts(t *testing.T) {
	entries := []domain.MasterLogEntry{
		{UnitType: domain.UnitBar, Source: "web", LineItemQuantity: 1, Subtotal: d("100"), Total: d("100"), TotalShippingCost: d("10")},
	}

	s, _ := newTestSummarizer(t)
	m := s.Summarize(context.Background(), entries, domain.PeriodInputs{
		StartingInventory:    10,
		PaymentProcessingFee: d("2"),
		ReceivingTotal:       d("25"),
		OtherLogisticsCosts:  d("165"),
	})

	assert.True(t, d("165").Equal(m.OtherLogisticsCosts))
	assert.True(t, d("202").Equal(m.Total3PLCosts), "3PL %s", m.Total3PLCosts)
	assert.True(t, d("-102").Equal(m.GrossProfit), "profit %s", m.GrossProfit)
}

func TestSummarizeZeroRevenue(t *testing.T) {
	entries := []domain.MasterLogEntry{
		{UnitType: domain.UnitBar, Source: "sales_team", LineItemQuantity: 1, TotalShippingCost: d("4")},
	}

	s, handler := newTestSummarizer(t)
	m := s.Summarize(context.Background(), entries, domain.PeriodInputs{StartingInventory: 10})

	assert.False(t, m.GrossMargin.Valid)
	require.Len(t, m.Issues, 1)
	assert.Equal(t, domain.IssueDivisionByZeroMetric, m.Issues[0].Kind)
	assert.True(t, d("-4").Equal(m.GrossProfit))
	assert.Equal(t, 10, m.EndingInventory)
	assert.True(t, handler.ContainsMessage("Gross margin undefined"))
}

func TestSummarizeInventory(t *testing.T) {
	entries := []domain.MasterLogEntry{
		{UnitType: domain.UnitBox, Source: "web", LineItemQuantity: 50, TotalBarsSold: 350},
		{UnitType: domain.UnitBar, Source: "web", LineItemQuantity: 30, TotalBarsSold: 30},
		{UnitType: domain.UnitUnresolved, Source: "free_sample", LineItemQuantity: 9},
	}

	s, _ := newTestSummarizer(t)
	m := s.Summarize(context.Background(), entries, domain.PeriodInputs{StartingInventory: 15802})

	assert.Equal(t, 50, m.BoxesSold)
	assert.Equal(t, 30, m.BarsSold)
	assert.Equal(t, 380, m.TotalInventorySold)
	assert.Equal(t, 15422, m.EndingInventory)
}

func TestSummarizeNegativeEndingInventoryWarns(t *testing.T) {
	s, handler := newTestSummarizer(t)
	m := s.Summarize(context.Background(), []domain.MasterLogEntry{
		{UnitType: domain.UnitBox, Source: "web", LineItemQuantity: 2, Total: d("50"), Subtotal: d("50")},
	}, domain.PeriodInputs{StartingInventory: 7})

	assert.Equal(t, -7, m.EndingInventory)
	assert.True(t, handler.ContainsMessage("Ending inventory is negative"))
}

func TestSummarizeEmptyLog(t *testing.T) {
	s, _ := newTestSummarizer(t)
	m := s.Summarize(context.Background(), nil, domain.PeriodInputs{
		StartingInventory:    5,
		PaymentProcessingFee: d("1.50"),
	})

	assert.True(t, decimal.Zero.Equal(m.GrossRevenue))
	assert.True(t, d("-1.5").Equal(m.GrossProfit))
	assert.False(t, m.GrossMargin.Valid)
	assert.Equal(t, 5, m.EndingInventory)
}
