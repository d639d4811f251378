package reconcile

// Status is the collection state of a sale.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// Summary is the payment projection of a sale.
type Summary struct {
	TotalAmount     Money  `json:"total_amount"`
	PaidAmount      Money  `json:"paid_amount"`
	RemainingAmount Money  `json:"remaining_amount"`
	Status          Status `json:"status"`
}

// ComputeSummary projects the payment ledger. A sale with a zero total is
// trivially paid.
func ComputeSummary(sale *SaleRecord) Summary {
	paid := sumPayments(sale.Payments)
	s := Summary{
		TotalAmount:     sale.TotalAmount,
		PaidAmount:      paid,
		RemainingAmount: sale.TotalAmount - paid,
	}
	switch {
	case s.RemainingAmount <= 0:
		s.Status = StatusPaid
	case paid > 0:
		s.Status = StatusPartial
	default:
		s.Status = StatusPending
	}
	return s
}

// Profit is the profitability of a sale based on money actually received.
type Profit struct {
	NetProfit       Money   `json:"net_profit"`
	ProfitMarginPct float64 `json:"profit_margin_pct"`
	IsLoss          bool    `json:"is_loss"`
}

// NetCost is what the car cost the dealership before it was sold.
func NetCost(sale *SaleRecord) Money {
	return sale.SellerAcquisitionPrice + sumExpenses(sale.PreSaleExpenses)
}

// PostSaleCost is the sum of expenses incurred after the sale.
func PostSaleCost(sale *SaleRecord) Money {
	return sumExpenses(sale.PostSaleExpenses)
}

// ComputeProfit subtracts the seller payout and every admin-side expense from
// the amount received so far. A partially collected sale therefore shows a
// reduced, possibly negative, profit until the balance comes in.
func ComputeProfit(sale *SaleRecord) Profit {
	net := sumPayments(sale.Payments) - NetCost(sale) - PostSaleCost(sale)
	return Profit{
		NetProfit:       net,
		ProfitMarginPct: marginPct(net, sale.SellerAcquisitionPrice).Round(2).InexactFloat64(),
		IsLoss:          net < 0,
	}
}
