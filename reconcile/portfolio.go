package reconcile

import "github.com/shopspring/decimal"

// Portfolio aggregates many sales for dashboards.
type Portfolio struct {
	SaleCount         int     `json:"sale_count"`
	CashReceived      Money   `json:"cash_received"`
	PendingCollection Money   `json:"pending_collection"`
	TotalDealValue    Money   `json:"total_deal_value"`
	RealizedProfit    Money   `json:"realized_profit"`
	UnrealizedLoss    Money   `json:"unrealized_loss"`
	AvgMarginPct      float64 `json:"avg_margin_pct"`
}

// AggregatePortfolio folds the summaries and profits of sales together. Sales
// with a zero acquisition price count as a 0% margin in the average. An empty
// slice yields the zero Portfolio.
func AggregatePortfolio(sales []SaleRecord) Portfolio {
	var p Portfolio
	if len(sales) == 0 {
		return p
	}

	margins := decimal.Zero
	for i := range sales {
		sale := &sales[i]
		sum := ComputeSummary(sale)
		p.CashReceived += sum.PaidAmount
		p.PendingCollection += sum.RemainingAmount

		net := sum.PaidAmount - NetCost(sale) - PostSaleCost(sale)
		if net > 0 {
			p.RealizedProfit += net
		} else if net < 0 {
			p.UnrealizedLoss += -net
		}
		margins = margins.Add(marginPct(net, sale.SellerAcquisitionPrice))
	}

	p.SaleCount = len(sales)
	p.TotalDealValue = p.CashReceived + p.PendingCollection
	p.AvgMarginPct = margins.Div(decimal.NewFromInt(int64(len(sales)))).Round(2).InexactFloat64()
	return p
}
