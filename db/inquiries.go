package db

import (
	"context"
	"fmt"

	"github.com/satheeshds/autodealer/models"
)

// CreateInquiry stores a contact form message. A car reference that does not
// point at a listed car is dropped rather than rejected.
func (s *Store) CreateInquiry(ctx context.Context, in models.InquiryInput) (models.Inquiry, error) {
	if in.CarID != nil {
		c, err := s.GetCar(ctx, *in.CarID)
		if err != nil || c.Status != models.CarLive {
			in.CarID = nil
		}
	}
	i := models.Inquiry{Name: in.Name, Phone: in.Phone, Email: in.Email, CarID: in.CarID, Message: in.Message, CreatedAt: s.now()}
	err := s.db.QueryRowContext(ctx, s.q(`INSERT INTO inquiries (name, phone, email, car_id, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`), i.Name, i.Phone, i.Email, i.CarID, i.Message, i.CreatedAt).Scan(&i.ID)
	if err != nil {
		return models.Inquiry{}, fmt.Errorf("inserting inquiry: %w", err)
	}
	return i, nil
}

// ListInquiries returns contact messages, newest first.
func (s *Store) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, phone, email, car_id, message, created_at
		FROM inquiries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Inquiry{}
	for rows.Next() {
		var i models.Inquiry
		if err := rows.Scan(&i.ID, &i.Name, &i.Phone, &i.Email, &i.CarID, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
