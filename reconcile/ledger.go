// Package reconcile derives payment state and profitability for vehicle sales.
//
// Everything here is a pure function of a SaleRecord. Nothing is cached and
// nothing performs I/O; persistence and serialisation of concurrent writers are
// the caller's job.
package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how the buyer's money reached the dealership.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodUPI  PaymentMethod = "UPI"
	MethodBank PaymentMethod = "BANK"
	MethodLoan PaymentMethod = "LOAN"
)

// ParsePaymentMethod accepts any casing of a known method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", invalid("method", "method must be one of: CASH, UPI, BANK, LOAN")
	}
	return m, nil
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodBank, MethodLoan:
		return true
	}
	return false
}

// Payment is one entry of the append-only buyer ledger.
type Payment struct {
	Amount         Money         `json:"amount"`
	Method         PaymentMethod `json:"method"`
	Timestamp      time.Time     `json:"timestamp"`
	InvoiceNumber  string        `json:"invoice_number"`
	FinanceCompany string        `json:"finance_company,omitempty"`
}

// PaymentInput carries what the admin enters when money is received.
type PaymentInput struct {
	Amount         Money         `json:"amount"`
	Method         PaymentMethod `json:"method"`
	FinanceCompany string        `json:"finance_company,omitempty"`
}

// ExpenseKind separates acquisition costs from costs incurred after the sale.
type ExpenseKind string

const (
	PreSale  ExpenseKind = "pre_sale"
	PostSale ExpenseKind = "post_sale"
)

// Expense is one labelled cost line.
type Expense struct {
	Label  string `json:"label"`
	Amount Money  `json:"amount"`
}

// SaleRecord is the input to every computation in this package.
type SaleRecord struct {
	ID                     int64     `json:"id"`
	TotalAmount            Money     `json:"total_amount"`
	SellerAcquisitionPrice Money     `json:"seller_acquisition_price"`
	Payments               []Payment `json:"payments"`
	PreSaleExpenses        []Expense `json:"pre_sale_expenses"`
	PostSaleExpenses       []Expense `json:"post_sale_expenses"`
}

// InvoiceNumber formats the receipt number of the seq-th payment (1-based) of
// a sale. Payments are never removed, so a number is never handed out twice.
func InvoiceNumber(saleID int64, seq int) string {
	return fmt.Sprintf("INV-%d-%03d", saleID, seq)
}

// ValidatePayment checks in against the current ledger without modifying it.
func ValidatePayment(sale *SaleRecord, in PaymentInput) error {
	if in.Amount <= 0 {
		return invalid("amount", "amount must be positive")
	}
	if !in.Method.Valid() {
		return invalid("method", "method must be one of: CASH, UPI, BANK, LOAN")
	}
	if in.Method != MethodLoan && strings.TrimSpace(in.FinanceCompany) != "" {
		return invalid("finance_company", "finance company is only valid for LOAN payments")
	}
	// Compare against the headroom so a huge amount cannot wrap the sum.
	if in.Amount > sale.TotalAmount-sumPayments(sale.Payments) {
		return invalid("amount", "payment exceeds total")
	}
	return nil
}

// RecordPayment validates in and appends it to the sale's ledger, stamped with
// at and a fresh invoice number. On error the ledger is left as it was.
func RecordPayment(sale *SaleRecord, in PaymentInput, at time.Time) (Payment, error) {
	if err := ValidatePayment(sale, in); err != nil {
		return Payment{}, err
	}
	p := Payment{
		Amount:         in.Amount,
		Method:         in.Method,
		Timestamp:      at,
		InvoiceNumber:  InvoiceNumber(sale.ID, len(sale.Payments)+1),
		FinanceCompany: strings.TrimSpace(in.FinanceCompany),
	}
	sale.Payments = append(sale.Payments, p)
	return p, nil
}

// AddExpense validates and attaches a cost line of the given kind.
func AddExpense(sale *SaleRecord, kind ExpenseKind, label string, amount Money) (Expense, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Expense{}, invalid("label", "label is required")
	}
	if amount < 0 {
		return Expense{}, invalid("amount", "amount must be non-negative")
	}
	if amount > MaxAmount {
		return Expense{}, invalid("amount", "amount must not exceed "+MaxAmount.String())
	}
	e := Expense{Label: label, Amount: amount}
	switch kind {
	case PreSale:
		sale.PreSaleExpenses = append(sale.PreSaleExpenses, e)
	case PostSale:
		sale.PostSaleExpenses = append(sale.PostSaleExpenses, e)
	default:
		return Expense{}, invalid("kind", "kind must be pre_sale or post_sale")
	}
	return e, nil
}
