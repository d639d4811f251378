package models

import (
	"fmt"
	"strings"
	"time"
)

// Car states. A sell request starts pending and is either approved (live) or
// rejected; a live car becomes sold when a sale is recorded against it.
const (
	CarPending  = "pending"
	CarLive     = "live"
	CarRejected = "rejected"
	CarSold     = "sold"
)

// Car is a vehicle known to the dealership, from sell request to sale.
type Car struct {
	ID                 int64     `json:"id"`
	Status             string    `json:"status"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Variant            *string   `json:"variant"`
	Year               int       `json:"year"`
	FuelType           string    `json:"fuel_type"`
	Transmission       *string   `json:"transmission"`
	KmDriven           int       `json:"km_driven"`
	Owners             int       `json:"owners"`
	Color              *string   `json:"color"`
	RegistrationNumber string    `json:"registration_number"`
	City               *string   `json:"city"`
	Description        *string   `json:"description"`
	Images             []string  `json:"images"`
	SellerName         string    `json:"seller_name"`
	SellerPhone        string    `json:"seller_phone"`
	SellerEmail        *string   `json:"seller_email"`
	AskingPrice        Money     `json:"asking_price"`
	HasLoan            bool      `json:"has_loan"`
	LoanOutstanding    *Money    `json:"loan_outstanding_amount"`
	ListingPrice       *Money    `json:"listing_price"`
	SellerPayout       *Money    `json:"seller_payout"`
	RejectionReason    *string   `json:"rejection_reason"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PublicCar is the listing view of a live car; seller contact details and
// the dealership's cost are left out.
type PublicCar struct {
	ID                 int64     `json:"id"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Variant            *string   `json:"variant"`
	Year               int       `json:"year"`
	FuelType           string    `json:"fuel_type"`
	Transmission       *string   `json:"transmission"`
	KmDriven           int       `json:"km_driven"`
	Owners             int       `json:"owners"`
	Color              *string   `json:"color"`
	RegistrationNumber string    `json:"registration_number"`
	City               *string   `json:"city"`
	Description        *string   `json:"description"`
	Images             []string  `json:"images"`
	Price              Money     `json:"price"`
	ListedAt           time.Time `json:"listed_at"`
}

// Public returns the listing view of c.
func (c *Car) Public() PublicCar {
	p := PublicCar{
		ID:                 c.ID,
		Brand:              c.Brand,
		Model:              c.Model,
		Variant:            c.Variant,
		Year:               c.Year,
		FuelType:           c.FuelType,
		Transmission:       c.Transmission,
		KmDriven:           c.KmDriven,
		Owners:             c.Owners,
		Color:              c.Color,
		RegistrationNumber: c.RegistrationNumber,
		City:               c.City,
		Description:        c.Description,
		Images:             c.Images,
		ListedAt:           c.UpdatedAt,
	}
	if c.ListingPrice != nil {
		p.Price = *c.ListingPrice
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

// Title is the short description used on invoices, e.g. "2019 Honda City VX".
func (c *Car) Title() string {
	t := fmt.Sprintf("%d %s %s", c.Year, c.Brand, c.Model)
	if c.Variant != nil && *c.Variant != "" {
		t += " " + *c.Variant
	}
	return t
}

// SellRequestInput is what a seller submits through the public form.
type SellRequestInput struct {
	Brand              string   `json:"brand"`
	Model              string   `json:"model"`
	Variant            *string  `json:"variant"`
	Year               int      `json:"year"`
	FuelType           string   `json:"fuel_type"`
	Transmission       *string  `json:"transmission"`
	KmDriven           int      `json:"km_driven"`
	Owners             int      `json:"owners"`
	Color              *string  `json:"color"`
	RegistrationNumber string   `json:"registration_number"`
	City               *string  `json:"city"`
	Description        *string  `json:"description"`
	Images             []string `json:"images"`
	SellerName         string   `json:"seller_name"`
	SellerPhone        string   `json:"seller_phone"`
	SellerEmail        *string  `json:"seller_email"`
	AskingPrice        Money    `json:"asking_price"`
	HasLoan            bool     `json:"has_loan"`
	LoanOutstanding    *Money   `json:"loan_outstanding_amount"`
}

var fuelTypes = map[string]bool{
	"petrol": true, "diesel": true, "cng": true, "lpg": true, "electric": true, "hybrid": true,
}

// Validate cleans the input in place and returns a message describing the
// first problem found, or "" when the input is acceptable.
func (s *SellRequestInput) Validate(now time.Time) string {
	s.Brand = Clean(s.Brand)
	s.Model = Clean(s.Model)
	s.Variant = CleanPtr(s.Variant)
	s.FuelType = strings.ToLower(Clean(s.FuelType))
	s.Transmission = CleanPtr(s.Transmission)
	s.Color = CleanPtr(s.Color)
	s.City = CleanPtr(s.City)
	s.Description = CleanPtr(s.Description)
	s.SellerName = Clean(s.SellerName)
	s.SellerEmail = CleanPtr(s.SellerEmail)
	s.RegistrationNumber = normalizeRegistration(s.RegistrationNumber)

	switch {
	case s.Brand == "":
		return "brand is required"
	case s.Model == "":
		return "model is required"
	case s.Year < 1980 || s.Year > now.Year()+1:
		return fmt.Sprintf("year must be between 1980 and %d", now.Year()+1)
	case !fuelTypes[s.FuelType]:
		return "fuel_type must be one of: petrol, diesel, cng, lpg, electric, hybrid"
	case s.KmDriven < 0:
		return "km_driven must be non-negative"
	case s.Owners < 0:
		return "owners must be non-negative"
	case s.RegistrationNumber == "":
		return "registration_number is required"
	case len(s.RegistrationNumber) < 6 || len(s.RegistrationNumber) > 12:
		return "registration_number is not valid"
	case s.SellerName == "":
		return "seller_name is required"
	case s.AskingPrice <= 0:
		return "asking_price must be positive"
	case tooLarge(s.AskingPrice):
		return "asking_price is too large"
	}
	if s.Transmission != nil {
		t := strings.ToLower(*s.Transmission)
		if t != "manual" && t != "automatic" {
			return "transmission must be manual or automatic"
		}
		s.Transmission = &t
	}
	phone, ok := normalizePhone(s.SellerPhone)
	if !ok {
		return "seller_phone must be a 10 digit mobile number"
	}
	s.SellerPhone = phone

	// The outstanding amount is only asked for when the car is still financed.
	if s.HasLoan {
		if s.LoanOutstanding == nil || *s.LoanOutstanding <= 0 {
			return "loan_outstanding_amount is required when has_loan is true"
		}
		if tooLarge(*s.LoanOutstanding) {
			return "loan_outstanding_amount is too large"
		}
	} else {
		s.LoanOutstanding = nil
	}

	images := s.Images[:0]
	for _, img := range s.Images {
		if img = Clean(img); img != "" {
			images = append(images, img)
		}
	}
	s.Images = images
	return ""
}

// normalizeRegistration upper-cases a registration number and drops
// separators, so "ka-01 ab 1234" becomes "KA01AB1234".
func normalizeRegistration(reg string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(reg) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ApproveInput moves a pending car to live.
type ApproveInput struct {
	ListingPrice Money  `json:"listing_price"`
	SellerPayout *Money `json:"seller_payout"`
}

func (a *ApproveInput) Validate() string {
	if a.ListingPrice <= 0 {
		return "listing_price must be positive"
	}
	if tooLarge(a.ListingPrice) {
		return "listing_price is too large"
	}
	if a.SellerPayout != nil {
		if *a.SellerPayout < 0 {
			return "seller_payout must be non-negative"
		}
		if tooLarge(*a.SellerPayout) {
			return "seller_payout is too large"
		}
	}
	return ""
}

// RejectInput rejects a pending car.
type RejectInput struct {
	Reason string `json:"reason"`
}

func (r *RejectInput) Validate() string {
	r.Reason = Clean(r.Reason)
	if r.Reason == "" {
		return "reason is required"
	}
	return ""
}

// CarFilter narrows car listings.
type CarFilter struct {
	Status   string
	Brand    string
	FuelType string
	MinPrice Money
	MaxPrice Money
	Search   string
}
