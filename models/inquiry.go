package models

import (
	"net/mail"
	"time"
)

// Inquiry is a message left through the public contact form.
type Inquiry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email"`
	CarID     *int64    `json:"car_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// InquiryInput is the contact form payload.
type InquiryInput struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	CarID   *int64  `json:"car_id"`
	Message string  `json:"message"`
}

func (i *InquiryInput) Validate() string {
	i.Name = Clean(i.Name)
	i.Message = Clean(i.Message)
	i.Email = CleanPtr(i.Email)
	if i.Name == "" {
		return "name is required"
	}
	phone, ok := normalizePhone(i.Phone)
	if !ok {
		return "phone must be a 10 digit mobile number"
	}
	i.Phone = phone
	if i.Email != nil {
		if _, err := mail.ParseAddress(*i.Email); err != nil {
			return "email is not valid"
		}
	}
	if i.Message == "" {
		return "message is required"
	}
	if len(i.Message) > 2000 {
		return "message must be at most 2000 characters"
	}
	return ""
}
