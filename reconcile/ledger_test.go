package reconcile

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var soldAt = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newSale(total, cost Money) *SaleRecord {
	return &SaleRecord{ID: 7, TotalAmount: total, SellerAcquisitionPrice: cost}
}

func TestRecordPayment_AppendsWithInvoiceNumber(t *testing.T) {
	sale := newSale(500000, 450000)

	p1, err := RecordPayment(sale, PaymentInput{Amount: 300000, Method: MethodCash}, soldAt)
	require.NoError(t, err)
	p2, err := RecordPayment(sale, PaymentInput{Amount: 200000, Method: MethodLoan, FinanceCompany: " HDFC Bank "}, soldAt)
	require.NoError(t, err)

	assert.Equal(t, "INV-7-001", p1.InvoiceNumber)
	assert.Equal(t, "INV-7-002", p2.InvoiceNumber)
	assert.Equal(t, "HDFC Bank", p2.FinanceCompany)
	assert.Equal(t, soldAt, p2.Timestamp)
	assert.Len(t, sale.Payments, 2)
}

func TestRecordPayment_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		in      PaymentInput
		field   string
		message string
	}{
		{"zero amount", PaymentInput{Amount: 0, Method: MethodCash}, "amount", "amount must be positive"},
		{"negative amount", PaymentInput{Amount: -10, Method: MethodCash}, "amount", "amount must be positive"},
		{"unknown method", PaymentInput{Amount: 10, Method: "CHEQUE"}, "method", "method must be one of: CASH, UPI, BANK, LOAN"},
		{"finance company on cash", PaymentInput{Amount: 10, Method: MethodCash, FinanceCompany: "HDFC"}, "finance_company", "finance company is only valid for LOAN payments"},
		{"overshoot", PaymentInput{Amount: 300001, Method: MethodUPI}, "amount", "payment exceeds total"},
		{"amount that would wrap the ledger sum", PaymentInput{Amount: math.MaxInt64, Method: MethodBank}, "amount", "payment exceeds total"},
		{"amount that would wrap to a small sum", PaymentInput{Amount: math.MaxInt64 - 199998, Method: MethodCash}, "amount", "payment exceeds total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := newSale(500000, 450000)
			_, err := RecordPayment(sale, PaymentInput{Amount: 200000, Method: MethodBank}, soldAt)
			require.NoError(t, err)

			_, err = RecordPayment(sale, tt.in, soldAt)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
			assert.Len(t, sale.Payments, 1, "ledger must be unchanged")
		})
	}
}

func TestRecordPayment_FullyPaidSaleRejectsMore(t *testing.T) {
	sale := newSale(500000, 450000)
	_, err := RecordPayment(sale, PaymentInput{Amount: 500000, Method: MethodCash}, soldAt)
	require.NoError(t, err)
	require.Equal(t, Money(0), ComputeSummary(sale).RemainingAmount)

	_, err = RecordPayment(sale, PaymentInput{Amount: 100000, Method: MethodCash}, soldAt)
	assert.True(t, IsValidation(err))
	assert.Len(t, sale.Payments, 1)
	assert.Equal(t, Money(500000), ComputeSummary(sale).PaidAmount)
}

func TestRecordPayment_ExactRemainderAccepted(t *testing.T) {
	sale := newSale(100, 0)
	for i := 0; i < 4; i++ {
		_, err := RecordPayment(sale, PaymentInput{Amount: 25, Method: MethodUPI}, soldAt)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusPaid, ComputeSummary(sale).Status)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" upi ")
	require.NoError(t, err)
	assert.Equal(t, MethodUPI, m)

	_, err = ParsePaymentMethod("card")
	assert.True(t, IsValidation(err))
}

func TestAddExpense(t *testing.T) {
	sale := newSale(500000, 450000)

	e, err := AddExpense(sale, PostSale, "  Insurance ", 1500)
	require.NoError(t, err)
	assert.Equal(t, "Insurance", e.Label)

	_, err = AddExpense(sale, PreSale, "Repair", 0)
	require.NoError(t, err)

	_, err = AddExpense(sale, PostSale, "   ", 10)
	assert.True(t, IsValidation(err))
	_, err = AddExpense(sale, PostSale, "RTO", -1)
	assert.True(t, IsValidation(err))
	_, err = AddExpense(sale, "later", "RTO", 1)
	assert.True(t, IsValidation(err))

	assert.Len(t, sale.PostSaleExpenses, 1)
	assert.Len(t, sale.PreSaleExpenses, 1)
}

func TestAddExpense_RejectsAmountAboveMax(t *testing.T) {
	sale := newSale(500000, 450000)

	_, err := AddExpense(sale, PostSale, "Repaint", MaxAmount)
	require.NoError(t, err)

	for _, amount := range []Money{MaxAmount + 1, math.MaxInt64} {
		_, err = AddExpense(sale, PostSale, "Repaint", amount)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "amount", ve.Field)
	}
	assert.Len(t, sale.PostSaleExpenses, 1)

	p := ComputeProfit(sale)
	assert.True(t, p.IsLoss)
	assert.Less(t, int64(p.NetProfit), int64(0))
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "amount: payment exceeds total", (&ValidationError{Field: "amount", Message: "payment exceeds total"}).Error())
	assert.Equal(t, "buyer is required", (&ValidationError{Message: "buyer is required"}).Error())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "4500.00", Money(450000).String())
	assert.Equal(t, "-0.05", Money(-5).String())
}
