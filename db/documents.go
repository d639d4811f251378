package db

import (
	"context"
	"fmt"

	"github.com/satheeshds/autodealer/models"
)

// AddDocument attaches document metadata to a car.
func (s *Store) AddDocument(ctx context.Context, carID int64, in models.DocumentInput) (models.Document, error) {
	if _, err := s.GetCar(ctx, carID); err != nil {
		return models.Document{}, err
	}
	d := models.Document{CarID: carID, Label: in.Label, FileURL: in.FileURL, CreatedAt: s.now()}
	err := s.db.QueryRowContext(ctx, s.q(`INSERT INTO car_documents (car_id, label, file_url, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`), carID, d.Label, d.FileURL, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return models.Document{}, fmt.Errorf("inserting document: %w", err)
	}
	return d, nil
}

// ListDocuments returns a car's documents in the order they were added.
func (s *Store) ListDocuments(ctx context.Context, carID int64) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT id, car_id, label, file_url, created_at
		FROM car_documents WHERE car_id = ? ORDER BY id`), carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.CarID, &d.Label, &d.FileURL, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
