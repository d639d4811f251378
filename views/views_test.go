package views

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSale() *models.Sale {
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	email := "ravi@example.com"
	s := &models.Sale{
		ID:                     7,
		Buyer:                  models.Buyer{Name: "Ravi <b>", Phone: "9845012345", Email: &email},
		TotalAmount:            50000000,
		SellerAcquisitionPrice: 45000000,
		SoldAt:                 at,
		Car: &models.Car{
			Brand: "Hyundai", Model: "Creta", Year: 2020,
			FuelType: "diesel", RegistrationNumber: "MH12AB1234",
		},
		Payments: []reconcile.Payment{
			{Amount: 30000000, Method: reconcile.MethodCash, Timestamp: at, InvoiceNumber: "INV-7-001"},
			{Amount: 15000000, Method: reconcile.MethodLoan, FinanceCompany: "HDFC", Timestamp: at.Add(24 * time.Hour), InvoiceNumber: "INV-7-002"},
		},
	}
	s.Reconcile()
	return s
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹4,50,000.00", FormatINR(45000000))
	assert.Equal(t, "₹0.05", FormatINR(5))
	assert.Equal(t, "₹999.00", FormatINR(99900))
	assert.Equal(t, "-₹1,234.50", FormatINR(-123450))
	assert.Equal(t, "₹12,34,56,789.01", FormatINR(12345678901))
	assert.Equal(t, "₹10,00,00,00,000.00", FormatINR(reconcile.MaxAmount))
	assert.Equal(t, "-₹92,23,37,20,36,85,47,758.08", FormatINR(math.MinInt64), "no float rounding at the extremes")
}

func TestInvoice(t *testing.T) {
	r := New(Dealer{Name: "Sharma Motors", GSTIN: "27ABCDE1234F1Z5"})
	sale := testSale()

	var buf bytes.Buffer
	require.NoError(t, r.Invoice(&buf, sale))
	out := buf.String()

	assert.Contains(t, out, "Proforma Invoice")
	assert.Contains(t, out, "Sharma Motors")
	assert.Contains(t, out, "2020 Hyundai Creta")
	assert.Contains(t, out, "INV-7-002")
	assert.Contains(t, out, "LOAN (HDFC)")
	assert.Contains(t, out, "₹50,000.00", "balance due")
	assert.Contains(t, out, "Ravi &lt;b&gt;")
	assert.NotContains(t, out, "Ravi <b>")

	sale.Payments = append(sale.Payments, reconcile.Payment{Amount: 5000000, Method: reconcile.MethodUPI, InvoiceNumber: "INV-7-003"})
	buf.Reset()
	require.NoError(t, r.Invoice(&buf, sale))
	assert.Contains(t, buf.String(), "Tax Invoice")
}

func TestReceipt(t *testing.T) {
	r := New(Dealer{Name: "Sharma Motors"})
	sale := testSale()

	var buf bytes.Buffer
	require.NoError(t, r.Receipt(&buf, sale, "INV-7-001"))
	out := buf.String()
	assert.Contains(t, out, "1st")
	assert.Contains(t, out, "₹3,00,000.00")
	assert.Contains(t, out, "₹2,00,000.00", "balance after the first payment")

	buf.Reset()
	require.NoError(t, r.Receipt(&buf, sale, "INV-7-002"))
	assert.Contains(t, buf.String(), "2nd")
	assert.Contains(t, buf.String(), "via HDFC")

	assert.ErrorIs(t, r.Receipt(&buf, sale, "INV-7-999"), ErrPaymentNotFound)
}
