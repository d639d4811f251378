package models

import (
	"net/url"
	"time"
)

// Document is metadata for a file attached to a car (RC book, insurance copy,
// sale agreement). The file itself lives in external storage.
type Document struct {
	ID        int64     `json:"id"`
	CarID     int64     `json:"car_id"`
	Label     string    `json:"label"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentInput attaches a document to a car.
type DocumentInput struct {
	Label   string `json:"label"`
	FileURL string `json:"file_url"`
}

func (d *DocumentInput) Validate() string {
	d.Label = Clean(d.Label)
	if d.Label == "" {
		return "label is required"
	}
	u, err := url.Parse(d.FileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "file_url must be an http(s) URL"
	}
	return ""
}
