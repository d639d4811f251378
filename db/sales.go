package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/reconcile"
)

const saleSelectQuery = `SELECT s.id, s.car_id, s.buyer_name, s.buyer_phone, s.buyer_email, s.buyer_address,
		s.total_amount, s.seller_acquisition_price, s.notes, s.sold_at
		FROM sales s
		JOIN cars c ON s.car_id = c.id`

func scanSale(scanner interface{ Scan(...any) error }) (models.Sale, error) {
	var s models.Sale
	err := scanner.Scan(&s.ID, &s.CarID, &s.Buyer.Name, &s.Buyer.Phone, &s.Buyer.Email, &s.Buyer.Address,
		&s.TotalAmount, &s.SellerAcquisitionPrice, &s.Notes, &s.SoldAt)
	return s, err
}

// CreateSale marks a live car as sold. The sale row, its pre-sale expenses
// and any initial payments are written in one transaction; the payments are
// replayed through the ledger so the total can never be exceeded.
func (s *Store) CreateSale(ctx context.Context, in models.SaleInput) (models.Sale, error) {
	var saleID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		car, err := s.getCar(ctx, tx, in.CarID, true)
		if err != nil {
			return err
		}
		if car.Status != models.CarLive {
			return fmt.Errorf("car %d is %s, only live cars can be sold: %w", car.ID, car.Status, ErrConflict)
		}

		cost := car.AskingPrice
		if car.SellerPayout != nil {
			cost = *car.SellerPayout
		}
		if in.SellerAcquisitionPrice != nil {
			cost = *in.SellerAcquisitionPrice
		}

		now := s.now()
		err = tx.QueryRowContext(ctx, s.q(`INSERT INTO sales (car_id, buyer_name, buyer_phone, buyer_email, buyer_address,
			total_amount, seller_acquisition_price, notes, sold_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			car.ID, in.Buyer.Name, in.Buyer.Phone, in.Buyer.Email, in.Buyer.Address,
			in.TotalAmount, cost, in.Notes, now).Scan(&saleID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("car %d already has a sale: %w", car.ID, ErrConflict)
			}
			return fmt.Errorf("inserting sale: %w", err)
		}

		rec := reconcile.SaleRecord{ID: saleID, TotalAmount: in.TotalAmount, SellerAcquisitionPrice: cost}
		for _, e := range in.PreSaleExpenses {
			exp, err := reconcile.AddExpense(&rec, reconcile.PreSale, e.Label, e.Amount)
			if err != nil {
				return err
			}
			if err := s.insertExpense(ctx, tx, saleID, reconcile.PreSale, exp, now); err != nil {
				return err
			}
		}
		for _, p := range in.Payments {
			payment, err := reconcile.RecordPayment(&rec, p, now)
			if err != nil {
				return err
			}
			if err := s.insertPayment(ctx, tx, saleID, len(rec.Payments), payment); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, s.q(`UPDATE cars SET status = ?, updated_at = ? WHERE id = ?`), models.CarSold, now, car.ID)
		return err
	})
	if err != nil {
		return models.Sale{}, err
	}
	return s.GetSale(ctx, saleID)
}

// RecordPayment appends a payment to a sale's ledger. The sale row is locked
// for the duration so concurrent writers are checked against each other;
// the (sale_id, seq) unique key backs that up.
func (s *Store) RecordPayment(ctx context.Context, saleID int64, in reconcile.PaymentInput) (reconcile.Payment, error) {
	var payment reconcile.Payment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.loadLedger(ctx, tx, saleID, true)
		if err != nil {
			return err
		}
		payment, err = reconcile.RecordPayment(&rec, in, s.now())
		if err != nil {
			return err
		}
		return s.insertPayment(ctx, tx, saleID, len(rec.Payments), payment)
	})
	return payment, err
}

// AddPostSaleExpense attaches a post-sale cost line to a sale.
func (s *Store) AddPostSaleExpense(ctx context.Context, saleID int64, label string, amount models.Money) (reconcile.Expense, error) {
	var exp reconcile.Expense
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.loadLedger(ctx, tx, saleID, true)
		if err != nil {
			return err
		}
		exp, err = reconcile.AddExpense(&rec, reconcile.PostSale, label, amount)
		if err != nil {
			return err
		}
		return s.insertExpense(ctx, tx, saleID, reconcile.PostSale, exp, s.now())
	})
	return exp, err
}

func (s *Store) insertPayment(ctx context.Context, tx *sql.Tx, saleID int64, seq int, p reconcile.Payment) error {
	var company *string
	if p.FinanceCompany != "" {
		company = &p.FinanceCompany
	}
	_, err := tx.ExecContext(ctx, s.q(`INSERT INTO sale_payments (sale_id, seq, amount, method, finance_company, invoice_number, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		saleID, seq, p.Amount, string(p.Method), company, p.InvoiceNumber, p.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment %s was recorded concurrently: %w", p.InvoiceNumber, ErrConflict)
		}
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (s *Store) insertExpense(ctx context.Context, tx *sql.Tx, saleID int64, kind reconcile.ExpenseKind, e reconcile.Expense, at time.Time) error {
	_, err := tx.ExecContext(ctx, s.q(`INSERT INTO sale_expenses (sale_id, kind, label, amount, created_at) VALUES (?, ?, ?, ?, ?)`),
		saleID, string(kind), e.Label, e.Amount, at)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}
	return nil
}

// loadLedger reads the engine view of one sale, optionally locking the row.
func (s *Store) loadLedger(ctx context.Context, q querier, saleID int64, lock bool) (reconcile.SaleRecord, error) {
	query := "SELECT id, total_amount, seller_acquisition_price FROM sales WHERE id = ?"
	if lock {
		query += s.forUpdate()
	}
	var rec reconcile.SaleRecord
	err := q.QueryRowContext(ctx, s.q(query), saleID).Scan(&rec.ID, &rec.TotalAmount, &rec.SellerAcquisitionPrice)
	if err != nil {
		return rec, notFound(err, "sale")
	}

	payments, err := s.loadPayments(ctx, q, []int64{saleID})
	if err != nil {
		return rec, err
	}
	pre, post, err := s.loadExpenses(ctx, q, []int64{saleID})
	if err != nil {
		return rec, err
	}
	rec.Payments = payments[saleID]
	rec.PreSaleExpenses = pre[saleID]
	rec.PostSaleExpenses = post[saleID]
	return rec, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func (s *Store) loadPayments(ctx context.Context, q querier, saleIDs []int64) (map[int64][]reconcile.Payment, error) {
	out := make(map[int64][]reconcile.Payment, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	rows, err := q.QueryContext(ctx, s.q(`SELECT sale_id, amount, method, COALESCE(finance_company, ''), invoice_number, paid_at
		FROM sale_payments WHERE sale_id IN (`+placeholders(len(saleIDs))+`) ORDER BY sale_id, seq`), idArgs(saleIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var saleID int64
		var p reconcile.Payment
		var method string
		if err := rows.Scan(&saleID, &p.Amount, &method, &p.FinanceCompany, &p.InvoiceNumber, &p.Timestamp); err != nil {
			return nil, err
		}
		p.Method = reconcile.PaymentMethod(method)
		out[saleID] = append(out[saleID], p)
	}
	return out, rows.Err()
}

func (s *Store) loadExpenses(ctx context.Context, q querier, saleIDs []int64) (pre, post map[int64][]reconcile.Expense, err error) {
	pre = make(map[int64][]reconcile.Expense, len(saleIDs))
	post = make(map[int64][]reconcile.Expense, len(saleIDs))
	if len(saleIDs) == 0 {
		return pre, post, nil
	}
	rows, err := q.QueryContext(ctx, s.q(`SELECT sale_id, kind, label, amount
		FROM sale_expenses WHERE sale_id IN (`+placeholders(len(saleIDs))+`) ORDER BY sale_id, id`), idArgs(saleIDs)...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var saleID int64
		var kind string
		var e reconcile.Expense
		if err := rows.Scan(&saleID, &kind, &e.Label, &e.Amount); err != nil {
			return nil, nil, err
		}
		if reconcile.ExpenseKind(kind) == reconcile.PreSale {
			pre[saleID] = append(pre[saleID], e)
		} else {
			post[saleID] = append(post[saleID], e)
		}
	}
	return pre, post, rows.Err()
}

// attachLedgers fills payments and expenses for sales and reconciles them.
func (s *Store) attachLedgers(ctx context.Context, sales []models.Sale) error {
	ids := make([]int64, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
	}
	payments, err := s.loadPayments(ctx, s.db, ids)
	if err != nil {
		return err
	}
	pre, post, err := s.loadExpenses(ctx, s.db, ids)
	if err != nil {
		return err
	}
	for i := range sales {
		sale := &sales[i]
		sale.Payments = payments[sale.ID]
		sale.PreSaleExpenses = pre[sale.ID]
		sale.PostSaleExpenses = post[sale.ID]
		sale.Reconcile()
	}
	return nil
}

// GetSale returns a sale with its car, ledger, summary and profit.
func (s *Store) GetSale(ctx context.Context, id int64) (models.Sale, error) {
	sale, err := scanSale(s.db.QueryRowContext(ctx, s.q(saleSelectQuery+" WHERE s.id = ?"), id))
	if err != nil {
		return sale, notFound(err, "sale")
	}
	car, err := s.GetCar(ctx, sale.CarID)
	if err != nil {
		return sale, err
	}
	sale.Car = &car

	sales := []models.Sale{sale}
	if err := s.attachLedgers(ctx, sales); err != nil {
		return sale, err
	}
	return sales[0], nil
}

// ListSales returns the sales history, newest first, each reconciled. The
// status filter is applied after reconciliation because status is derived.
func (s *Store) ListSales(ctx context.Context, f models.SaleFilter) ([]models.Sale, error) {
	query := saleSelectQuery
	var conditions []string
	var args []any

	if f.From != nil {
		conditions = append(conditions, "s.sold_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		conditions = append(conditions, "s.sold_at < ?")
		args = append(args, f.To.UTC())
	}
	if f.Search != "" {
		conditions = append(conditions, "(LOWER(s.buyer_name) LIKE ? OR LOWER(c.brand) LIKE ? OR LOWER(c.model) LIKE ? OR c.registration_number LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, like, like, like, "%"+strings.ToUpper(f.Search)+"%")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.sold_at DESC, s.id DESC"

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	var sales []models.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sales = append(sales, sale)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachLedgers(ctx, sales); err != nil {
		return nil, err
	}
	if err := s.attachCars(ctx, sales); err != nil {
		return nil, err
	}

	out := []models.Sale{}
	for _, sale := range sales {
		if f.Status != "" && string(sale.Summary.Status) != strings.ToUpper(f.Status) {
			continue
		}
		out = append(out, sale)
	}
	return out, nil
}

func (s *Store) attachCars(ctx context.Context, sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]int64, len(sales))
	for i := range sales {
		ids[i] = sales[i].CarID
	}
	rows, err := s.db.QueryContext(ctx, s.q(carSelectQuery+" WHERE id IN ("+placeholders(len(ids))+")"), idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	cars := make(map[int64]models.Car, len(ids))
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return err
		}
		cars[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range sales {
		if c, ok := cars[sales[i].CarID]; ok {
			sales[i].Car = &c
		}
	}
	return nil
}

// SaleRecords returns the engine view of every sale, for portfolio
// aggregation.
func (s *Store) SaleRecords(ctx context.Context) ([]reconcile.SaleRecord, error) {
	sales, err := s.ListSales(ctx, models.SaleFilter{})
	if err != nil {
		return nil, err
	}
	recs := make([]reconcile.SaleRecord, len(sales))
	for i := range sales {
		recs[i] = sales[i].Record()
	}
	return recs, nil
}
