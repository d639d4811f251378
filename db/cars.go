package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/satheeshds/autodealer/models"
)

const carSelectQuery = `SELECT id, status, brand, model, variant, year, fuel_type, transmission,
		km_driven, owners, color, registration_number, city, description, images,
		seller_name, seller_phone, seller_email, asking_price, has_loan, loan_outstanding,
		listing_price, seller_payout, rejection_reason, created_at, updated_at
		FROM cars`

func scanCar(scanner interface{ Scan(...any) error }) (models.Car, error) {
	var c models.Car
	var images string
	err := scanner.Scan(&c.ID, &c.Status, &c.Brand, &c.Model, &c.Variant, &c.Year, &c.FuelType, &c.Transmission,
		&c.KmDriven, &c.Owners, &c.Color, &c.RegistrationNumber, &c.City, &c.Description, &images,
		&c.SellerName, &c.SellerPhone, &c.SellerEmail, &c.AskingPrice, &c.HasLoan, &c.LoanOutstanding,
		&c.ListingPrice, &c.SellerPayout, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(images), &c.Images); err != nil {
		return c, fmt.Errorf("decoding images of car %d: %w", c.ID, err)
	}
	if c.Images == nil {
		c.Images = []string{}
	}
	return c, nil
}

func (s *Store) getCar(ctx context.Context, q querier, id int64, lock bool) (models.Car, error) {
	query := carSelectQuery + " WHERE id = ?"
	if lock {
		query += s.forUpdate()
	}
	c, err := scanCar(q.QueryRowContext(ctx, s.q(query), id))
	return c, notFound(err, "car")
}

// GetCar returns a car in any state.
func (s *Store) GetCar(ctx context.Context, id int64) (models.Car, error) {
	return s.getCar(ctx, s.db, id, false)
}

// CreateSellRequest stores a validated sell request as a pending car.
func (s *Store) CreateSellRequest(ctx context.Context, in models.SellRequestInput) (models.Car, error) {
	images, err := json.Marshal(in.Images)
	if err != nil {
		return models.Car{}, err
	}
	if in.Images == nil {
		images = []byte("[]")
	}

	now := s.now()
	var id int64
	err = s.db.QueryRowContext(ctx, s.q(`INSERT INTO cars (status, brand, model, variant, year, fuel_type, transmission,
		km_driven, owners, color, registration_number, city, description, images,
		seller_name, seller_phone, seller_email, asking_price, has_loan, loan_outstanding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		models.CarPending, in.Brand, in.Model, in.Variant, in.Year, in.FuelType, in.Transmission,
		in.KmDriven, in.Owners, in.Color, in.RegistrationNumber, in.City, in.Description, string(images),
		in.SellerName, in.SellerPhone, in.SellerEmail, in.AskingPrice, in.HasLoan, in.LoanOutstanding, now, now).Scan(&id)
	if err != nil {
		return models.Car{}, fmt.Errorf("inserting sell request: %w", err)
	}
	return s.GetCar(ctx, id)
}

// ListCars returns cars matching f, newest first.
func (s *Store) ListCars(ctx context.Context, f models.CarFilter) ([]models.Car, error) {
	query := carSelectQuery
	var conditions []string
	var args []any

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Brand != "" {
		conditions = append(conditions, "LOWER(brand) = LOWER(?)")
		args = append(args, f.Brand)
	}
	if f.FuelType != "" {
		conditions = append(conditions, "fuel_type = ?")
		args = append(args, strings.ToLower(f.FuelType))
	}
	if f.MinPrice > 0 {
		conditions = append(conditions, "listing_price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		conditions = append(conditions, "listing_price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.Search != "" {
		conditions = append(conditions, "(LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(variant) LIKE ? OR registration_number LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, like, like, like, "%"+strings.ToUpper(f.Search)+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// ApproveCar moves a pending car to live. The agreed seller payout defaults
// to the asking price.
func (s *Store) ApproveCar(ctx context.Context, id int64, in models.ApproveInput) (models.Car, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := s.getCar(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if c.Status != models.CarPending {
			return fmt.Errorf("car %d is %s, only pending cars can be approved: %w", id, c.Status, ErrConflict)
		}
		payout := c.AskingPrice
		if in.SellerPayout != nil {
			payout = *in.SellerPayout
		}
		_, err = tx.ExecContext(ctx, s.q(`UPDATE cars SET status = ?, listing_price = ?, seller_payout = ?,
			rejection_reason = NULL, updated_at = ? WHERE id = ?`),
			models.CarLive, in.ListingPrice, payout, s.now(), id)
		return err
	})
	if err != nil {
		return models.Car{}, err
	}
	return s.GetCar(ctx, id)
}

// RejectCar moves a pending car to rejected.
func (s *Store) RejectCar(ctx context.Context, id int64, reason string) (models.Car, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := s.getCar(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if c.Status != models.CarPending {
			return fmt.Errorf("car %d is %s, only pending cars can be rejected: %w", id, c.Status, ErrConflict)
		}
		_, err = tx.ExecContext(ctx, s.q(`UPDATE cars SET status = ?, rejection_reason = ?, updated_at = ? WHERE id = ?`),
			models.CarRejected, reason, s.now(), id)
		return err
	})
	if err != nil {
		return models.Car{}, err
	}
	return s.GetCar(ctx, id)
}

// CountCarsByStatus returns the number of cars in each state.
func (s *Store) CountCarsByStatus(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{
		models.CarPending:  0,
		models.CarLive:     0,
		models.CarRejected: 0,
		models.CarSold:     0,
	}
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM cars GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
