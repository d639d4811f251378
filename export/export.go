// Package export writes the sales history to columnar or CSV files through an
// in-memory DuckDB database, for use in spreadsheets and ad-hoc analysis.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/satheeshds/autodealer/models"
)

// Format is an output file format.
type Format string

const (
	Parquet Format = "parquet"
	CSV     Format = "csv"
)

// ParseFormat accepts "parquet" or "csv".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Parquet, CSV:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want parquet or csv)", s)
}

func (f Format) copyOptions() string {
	if f == CSV {
		return "(FORMAT csv, HEADER true)"
	}
	return "(FORMAT parquet)"
}

const salesTable = `CREATE TABLE sales (
	sale_id BIGINT,
	sold_at TIMESTAMP,
	car_id BIGINT,
	vehicle VARCHAR,
	registration_number VARCHAR,
	buyer_name VARCHAR,
	buyer_phone VARCHAR,
	total_amount DECIMAL(18,2),
	seller_acquisition_price DECIMAL(18,2),
	pre_sale_expenses DECIMAL(18,2),
	post_sale_expenses DECIMAL(18,2),
	paid_amount DECIMAL(18,2),
	remaining_amount DECIMAL(18,2),
	status VARCHAR,
	net_profit DECIMAL(18,2),
	profit_margin_pct DOUBLE,
	is_loss BOOLEAN
)`

const paymentsTable = `CREATE TABLE payments (
	sale_id BIGINT,
	invoice_number VARCHAR,
	paid_at TIMESTAMP,
	method VARCHAR,
	finance_company VARCHAR,
	amount DECIMAL(18,2)
)`

// Sales writes one row per sale, with the reconciled summary and profit, to
// path. It returns the number of rows written.
func Sales(ctx context.Context, sales []models.Sale, format Format, path string) (int, error) {
	return write(ctx, salesTable, "sales", format, path, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO sales VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		for i := range sales {
			s := &sales[i]
			s.Reconcile()
			rec := s.Record()
			var vehicle, reg string
			if s.Car != nil {
				vehicle, reg = s.Car.Title(), s.Car.RegistrationNumber
			}
			var pre, post models.Money
			for _, e := range rec.PreSaleExpenses {
				pre += e.Amount
			}
			for _, e := range rec.PostSaleExpenses {
				post += e.Amount
			}
			_, err := stmt.ExecContext(ctx,
				s.ID, s.SoldAt.UTC(), s.CarID, vehicle, reg, s.Buyer.Name, s.Buyer.Phone,
				s.TotalAmount.String(), s.SellerAcquisitionPrice.String(), pre.String(), post.String(),
				s.Summary.PaidAmount.String(), s.Summary.RemainingAmount.String(), string(s.Summary.Status),
				s.Profit.NetProfit.String(), s.Profit.ProfitMarginPct, s.Profit.IsLoss,
			)
			if err != nil {
				return 0, fmt.Errorf("sale %d: %w", s.ID, err)
			}
		}
		return len(sales), nil
	})
}

// Payments writes the payment ledger of every sale, one row per payment.
func Payments(ctx context.Context, sales []models.Sale, format Format, path string) (int, error) {
	return write(ctx, paymentsTable, "payments", format, path, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO payments VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		n := 0
		for _, s := range sales {
			for _, p := range s.Payments {
				var company any
				if p.FinanceCompany != "" {
					company = p.FinanceCompany
				}
				if _, err := stmt.ExecContext(ctx, s.ID, p.InvoiceNumber, p.Timestamp.UTC(), string(p.Method), company, p.Amount.String()); err != nil {
					return 0, fmt.Errorf("payment %s: %w", p.InvoiceNumber, err)
				}
				n++
			}
		}
		return n, nil
	})
}

func write(ctx context.Context, ddl, table string, format Format, path string, fill func(*sql.Tx) (int, error)) (int, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return 0, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create %s table: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	n, err := fill(tx)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	q := fmt.Sprintf("COPY %s TO '%s' %s", table, strings.ReplaceAll(path, "'", "''"), format.copyOptions())
	if _, err := db.ExecContext(ctx, q); err != nil {
		return 0, fmt.Errorf("copy %s to %s: %w", table, path, err)
	}
	return n, nil
}
