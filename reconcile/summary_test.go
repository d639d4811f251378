package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pay(t *testing.T, sale *SaleRecord, amount Money, method PaymentMethod) {
	t.Helper()
	_, err := RecordPayment(sale, PaymentInput{Amount: amount, Method: method}, soldAt)
	require.NoError(t, err)
}

func TestComputeSummary_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		total     Money
		payments  []Money
		paid      Money
		remaining Money
		status    Status
	}{
		{"single cash payment", 500000, []Money{500000}, 500000, 0, StatusPaid},
		{"cash plus loan", 500000, []Money{300000, 200000}, 500000, 0, StatusPaid},
		{"partial", 500000, []Money{200000}, 200000, 300000, StatusPartial},
		{"nothing yet", 500000, nil, 0, 500000, StatusPending},
		{"zero total", 0, nil, 0, 0, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := newSale(tt.total, 0)
			for i, amt := range tt.payments {
				method := MethodCash
				if i > 0 {
					method = MethodLoan
				}
				pay(t, sale, amt, method)
			}
			got := ComputeSummary(sale)
			assert.Equal(t, tt.total, got.TotalAmount)
			assert.Equal(t, tt.paid, got.PaidAmount)
			assert.Equal(t, tt.remaining, got.RemainingAmount)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, got.TotalAmount-got.PaidAmount, got.RemainingAmount)
			assert.GreaterOrEqual(t, int64(got.RemainingAmount), int64(0))
		})
	}
}

func TestComputeSummary_Idempotent(t *testing.T) {
	sale := newSale(500000, 450000)
	pay(t, sale, 120000, MethodUPI)
	before := len(sale.Payments)

	first := ComputeSummary(sale)
	second := ComputeSummary(sale)
	assert.Equal(t, first, second)
	assert.Len(t, sale.Payments, before)
}

func TestLedgerSum_OrderIndependent(t *testing.T) {
	amounts := []Money{50000, 125000, 75000, 10000, 240000}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		shuffled := append([]Money(nil), amounts...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		sale := newSale(500000, 0)
		var want Money
		for _, amt := range shuffled {
			pay(t, sale, amt, MethodBank)
			want += amt
		}
		assert.Equal(t, want, ComputeSummary(sale).PaidAmount)
	}
}

func TestComputeProfit_FullyPaid(t *testing.T) {
	sale := newSale(500000, 450000)
	pay(t, sale, 500000, MethodCash)

	got := ComputeProfit(sale)
	assert.Equal(t, Money(50000), got.NetProfit)
	assert.InDelta(t, 11.11, got.ProfitMarginPct, 0.001)
	assert.False(t, got.IsLoss)
}

func TestComputeProfit_PostSaleExpensesReduceProfit(t *testing.T) {
	sale := newSale(500000, 450000)
	pay(t, sale, 500000, MethodCash)
	require.Equal(t, Money(50000), ComputeProfit(sale).NetProfit)

	_, err := AddExpense(sale, PostSale, "RC Transfer", 2000)
	require.NoError(t, err)
	_, err = AddExpense(sale, PostSale, "Insurance", 1500)
	require.NoError(t, err)

	assert.Equal(t, Money(46500), ComputeProfit(sale).NetProfit)
}

func TestComputeProfit_PreSaleExpensesAddToCost(t *testing.T) {
	sale := newSale(500000, 450000)
	sale.PreSaleExpenses = []Expense{{Label: "Repair", Amount: 8000}, {Label: "Detailing", Amount: 2000}}
	pay(t, sale, 500000, MethodCash)

	assert.Equal(t, Money(460000), NetCost(sale))
	assert.Equal(t, Money(40000), ComputeProfit(sale).NetProfit)
}

func TestComputeProfit_PartiallyPaidShowsLoss(t *testing.T) {
	sale := newSale(500000, 450000)
	pay(t, sale, 200000, MethodCash)

	got := ComputeProfit(sale)
	assert.Equal(t, Money(-250000), got.NetProfit)
	assert.True(t, got.IsLoss)
	assert.InDelta(t, -55.56, got.ProfitMarginPct, 0.001)
}

func TestComputeProfit_ZeroAcquisitionPrice(t *testing.T) {
	sale := newSale(500000, 0)
	pay(t, sale, 100000, MethodCash)

	got := ComputeProfit(sale)
	assert.Equal(t, Money(100000), got.NetProfit)
	assert.Equal(t, 0.0, got.ProfitMarginPct)
}
