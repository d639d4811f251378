package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregatePortfolio_Empty(t *testing.T) {
	assert.Equal(t, Portfolio{}, AggregatePortfolio(nil))
	assert.Equal(t, Portfolio{}, AggregatePortfolio([]SaleRecord{}))
}

func TestAggregatePortfolio(t *testing.T) {
	paid := newSale(500000, 450000)
	pay(t, paid, 500000, MethodCash)

	partial := newSale(300000, 250000)
	pay(t, partial, 100000, MethodUPI)

	free := newSale(50000, 0)
	pay(t, free, 50000, MethodCash)

	got := AggregatePortfolio([]SaleRecord{*paid, *partial, *free})

	assert.Equal(t, 3, got.SaleCount)
	assert.Equal(t, Money(650000), got.CashReceived)
	assert.Equal(t, Money(200000), got.PendingCollection)
	assert.Equal(t, Money(850000), got.TotalDealValue)
	assert.Equal(t, Money(100000), got.RealizedProfit)
	assert.Equal(t, Money(150000), got.UnrealizedLoss)
	// (11.111 + -60 + 0) / 3
	assert.InDelta(t, -16.30, got.AvgMarginPct, 0.001)
}

func TestAggregatePortfolio_MatchesPerSaleFigures(t *testing.T) {
	a := newSale(400000, 380000)
	pay(t, a, 150000, MethodBank)
	b := newSale(900000, 700000)
	pay(t, b, 900000, MethodLoan)
	b.PostSaleExpenses = []Expense{{Label: "RTO Change", Amount: 5000}}

	got := AggregatePortfolio([]SaleRecord{*a, *b})

	var cash, pending Money
	for _, s := range []*SaleRecord{a, b} {
		sum := ComputeSummary(s)
		cash += sum.PaidAmount
		pending += sum.RemainingAmount
	}
	assert.Equal(t, cash, got.CashReceived)
	assert.Equal(t, pending, got.PendingCollection)
	assert.Equal(t, ComputeProfit(b).NetProfit, got.RealizedProfit)
	assert.Equal(t, -ComputeProfit(a).NetProfit, got.UnrealizedLoss)
}
