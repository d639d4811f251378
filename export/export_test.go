package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSales() []models.Sale {
	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	return []models.Sale{
		{
			ID: 1, CarID: 3, TotalAmount: 500000, SellerAcquisitionPrice: 450000, SoldAt: at,
			Buyer: models.Buyer{Name: "Meera", Phone: "9000000001"},
			Car:   &models.Car{Brand: "Maruti", Model: "Swift", Year: 2019, RegistrationNumber: "KA01MN4321"},
			Payments: []reconcile.Payment{
				{Amount: 300000, Method: reconcile.MethodCash, Timestamp: at, InvoiceNumber: "INV-1-001"},
				{Amount: 200000, Method: reconcile.MethodLoan, FinanceCompany: "Bajaj", Timestamp: at, InvoiceNumber: "INV-1-002"},
			},
		},
		{
			ID: 2, CarID: 4, TotalAmount: 300000, SellerAcquisitionPrice: 250000, SoldAt: at,
			Buyer: models.Buyer{Name: "Arjun", Phone: "9000000002"},
			Payments: []reconcile.Payment{
				{Amount: 100000, Method: reconcile.MethodUPI, Timestamp: at, InvoiceNumber: "INV-2-001"},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)
	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestSales_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	n, err := Sales(context.Background(), sampleSales(), CSV, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "sale_id,sold_at,car_id,vehicle"))
	assert.Contains(t, lines[1], "2019 Maruti Swift")
	assert.Contains(t, lines[1], "PAID")
	assert.Contains(t, lines[2], "PARTIAL")
}

func TestPayments_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.parquet")
	n, err := Payments(context.Background(), sampleSales(), Parquet, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}
