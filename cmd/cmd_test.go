package cmd

import (
	"bytes"
	"testing"

	"github.com/satheeshds/autodealer/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash-password", "showroom"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	hash := bytes.TrimSpace(out.Bytes())
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("showroom")))
}

func TestPrintPortfolio(t *testing.T) {
	var out bytes.Buffer
	printPortfolio(&out, reconcile.Portfolio{
		SaleCount:         2,
		TotalDealValue:    80000000,
		CashReceived:      60000000,
		PendingCollection: 20000000,
		RealizedProfit:    5000000,
		UnrealizedLoss:    15000000,
		AvgMarginPct:      -16.3,
	})
	s := out.String()
	assert.Contains(t, s, "Sales:               2")
	assert.Contains(t, s, "₹6,00,000.00")
	assert.Contains(t, s, "-16.30%")
}

func TestRequireConfig(t *testing.T) {
	cfg, cfgErr = nil, nil
	_, err := requireConfig()
	assert.Error(t, err)
}
