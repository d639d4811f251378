package models

import (
	"strings"
	"time"

	"github.com/satheeshds/autodealer/reconcile"
)

// Buyer is the person a car was sold to.
type Buyer struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// Sale is a completed vehicle sale with its payment ledger and cost lines.
type Sale struct {
	ID                     int64               `json:"id"`
	CarID                  int64               `json:"car_id"`
	Buyer                  Buyer               `json:"buyer"`
	TotalAmount            Money               `json:"total_amount"`
	SellerAcquisitionPrice Money               `json:"seller_acquisition_price"`
	Notes                  *string             `json:"notes"`
	SoldAt                 time.Time           `json:"sold_at"`
	Payments               []reconcile.Payment `json:"payments"`
	PreSaleExpenses        []reconcile.Expense `json:"pre_sale_expenses"`
	PostSaleExpenses       []reconcile.Expense `json:"post_sale_expenses"`
	// Computed fields
	Car     *Car              `json:"car,omitempty"`
	Summary reconcile.Summary `json:"summary"`
	Profit  reconcile.Profit  `json:"profit"`
}

// Record returns the engine view of the sale. The slices are shared.
func (s *Sale) Record() reconcile.SaleRecord {
	return reconcile.SaleRecord{
		ID:                     s.ID,
		TotalAmount:            s.TotalAmount,
		SellerAcquisitionPrice: s.SellerAcquisitionPrice,
		Payments:               s.Payments,
		PreSaleExpenses:        s.PreSaleExpenses,
		PostSaleExpenses:       s.PostSaleExpenses,
	}
}

// Reconcile recomputes the summary and profit from the ledger. It is called
// on every read; the computed fields are never persisted.
func (s *Sale) Reconcile() {
	if s.Payments == nil {
		s.Payments = []reconcile.Payment{}
	}
	if s.PreSaleExpenses == nil {
		s.PreSaleExpenses = []reconcile.Expense{}
	}
	if s.PostSaleExpenses == nil {
		s.PostSaleExpenses = []reconcile.Expense{}
	}
	rec := s.Record()
	s.Summary = reconcile.ComputeSummary(&rec)
	s.Profit = reconcile.ComputeProfit(&rec)
}

// SaleInput is the normalised "mark as sold" request.
type SaleInput struct {
	CarID                  int64                    `json:"car_id"`
	Buyer                  Buyer                    `json:"buyer"`
	TotalAmount            Money                    `json:"total_amount"`
	SellerAcquisitionPrice *Money                   `json:"seller_acquisition_price"`
	PreSaleExpenses        []reconcile.Expense      `json:"pre_sale_expenses"`
	Payments               []reconcile.PaymentInput `json:"payments"`
	Notes                  *string                  `json:"notes"`
}

// Validate cleans the input in place. Payment amounts against the total are
// checked later by the ledger itself.
func (s *SaleInput) Validate() string {
	s.Buyer.Name = Clean(s.Buyer.Name)
	s.Buyer.Email = CleanPtr(s.Buyer.Email)
	s.Buyer.Address = CleanPtr(s.Buyer.Address)
	s.Notes = CleanPtr(s.Notes)

	if s.CarID <= 0 {
		return "car_id is required"
	}
	if s.Buyer.Name == "" || strings.TrimSpace(s.Buyer.Phone) == "" {
		return "buyer name and phone are required"
	}
	phone, ok := normalizePhone(s.Buyer.Phone)
	if !ok {
		return "buyer phone must be a 10 digit mobile number"
	}
	s.Buyer.Phone = phone
	if s.TotalAmount < 0 {
		return "total_amount must be non-negative"
	}
	if tooLarge(s.TotalAmount) {
		return "total_amount is too large"
	}
	if s.SellerAcquisitionPrice != nil {
		if *s.SellerAcquisitionPrice < 0 {
			return "seller_acquisition_price must be non-negative"
		}
		if tooLarge(*s.SellerAcquisitionPrice) {
			return "seller_acquisition_price is too large"
		}
	}
	for i := range s.PreSaleExpenses {
		e := &s.PreSaleExpenses[i]
		e.Label = Clean(e.Label)
		if e.Label == "" {
			return "pre_sale_expenses: label is required"
		}
		if e.Amount < 0 {
			return "pre_sale_expenses: amount must be non-negative"
		}
		if tooLarge(e.Amount) {
			return "pre_sale_expenses: amount is too large"
		}
	}
	for i := range s.Payments {
		s.Payments[i] = NormalizePayment(s.Payments[i])
	}
	return ""
}

// NormalizePayment upper-cases the method and cleans the finance company.
func NormalizePayment(p reconcile.PaymentInput) reconcile.PaymentInput {
	p.Method = reconcile.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(p.Method))))
	p.FinanceCompany = Clean(p.FinanceCompany)
	return p
}

// ExpenseInput adds a post-sale expense.
type ExpenseInput struct {
	Label  string `json:"label"`
	Amount Money  `json:"amount"`
}

func (e *ExpenseInput) Validate() string {
	e.Label = Clean(e.Label)
	if e.Label == "" {
		return "label is required"
	}
	if e.Amount < 0 {
		return "amount must be non-negative"
	}
	if tooLarge(e.Amount) {
		return "amount is too large"
	}
	return ""
}

// SaleFilter narrows the sales history.
type SaleFilter struct {
	Status string // PENDING, PARTIAL or PAID; applied after reconciliation
	From   *time.Time
	To     *time.Time
	Search string
}
