package reconcile

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in paise. All ledger arithmetic is done on integers so
// sums never drift; decimals only appear when presenting percentages or rupees.
type Money int64

// MaxAmount bounds every amount entering a ledger (₹1,000 crore). Sums of a
// sale's lines stay far inside int64 at this size.
const MaxAmount Money = 1_000_000_000_000

// Rupees returns the amount as a decimal number of rupees.
func (m Money) Rupees() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount in rupees with two decimals, e.g. "4500.00".
func (m Money) String() string {
	return m.Rupees().StringFixed(2)
}

func sumPayments(payments []Payment) Money {
	var total Money
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

func sumExpenses(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// marginPct returns profit as a percentage of cost, or zero when cost is zero.
func marginPct(profit, cost Money) decimal.Decimal {
	if cost == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(profit)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(cost)))
}
