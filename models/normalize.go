package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/satheeshds/autodealer/reconcile"
)

// Shape tags which of the two request layouts a payload used.
type Shape string

const (
	ShapeFlat   Shape = "flat"
	ShapeNested Shape = "nested"
)

// ErrAmbiguousShape is returned when a payload mixes flat and nested keys.
var ErrAmbiguousShape = errors.New("payload mixes flat and nested car fields")

// detectShape decides the layout from the top-level keys: a "car" object means
// nested, a "car_id" or "brand" key means flat.
func detectShape(raw []byte) (Shape, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	car, nested := top["car"]
	nested = nested && bytes.HasPrefix(bytes.TrimSpace(car), []byte("{"))
	_, flatID := top["car_id"]
	_, flatBrand := top["brand"]
	if nested && (flatID || flatBrand) {
		return "", ErrAmbiguousShape
	}
	if nested {
		return ShapeNested, nil
	}
	return ShapeFlat, nil
}

type flatSale struct {
	CarID                  int64                    `json:"car_id"`
	BuyerName              string                   `json:"buyer_name"`
	BuyerPhone             string                   `json:"buyer_phone"`
	BuyerEmail             *string                  `json:"buyer_email"`
	BuyerAddress           *string                  `json:"buyer_address"`
	Buyer                  *Buyer                   `json:"buyer"`
	TotalAmount            Money                    `json:"total_amount"`
	SellerAcquisitionPrice *Money                   `json:"seller_acquisition_price"`
	PreSaleExpenses        []reconcile.Expense      `json:"pre_sale_expenses"`
	Payments               []reconcile.PaymentInput `json:"payments"`
	Notes                  *string                  `json:"notes"`
}

type nestedSale struct {
	Car struct {
		ID int64 `json:"id"`
	} `json:"car"`
	Seller struct {
		AcquisitionPrice *Money `json:"acquisition_price"`
	} `json:"seller"`
	Buyer Buyer `json:"buyer"`
	Sale  struct {
		TotalAmount     Money                    `json:"total_amount"`
		PreSaleExpenses []reconcile.Expense      `json:"pre_sale_expenses"`
		Payments        []reconcile.PaymentInput `json:"payments"`
		Notes           *string                  `json:"notes"`
	} `json:"sale"`
}

// NormalizeSaleInput decodes a "mark as sold" payload in either the flat or
// the nested {car, seller, buyer, sale} layout into a SaleInput.
func NormalizeSaleInput(raw []byte) (SaleInput, Shape, error) {
	shape, err := detectShape(raw)
	if err != nil {
		return SaleInput{}, "", err
	}

	if shape == ShapeNested {
		var n nestedSale
		if err := json.Unmarshal(raw, &n); err != nil {
			return SaleInput{}, "", fmt.Errorf("invalid nested sale: %w", err)
		}
		return SaleInput{
			CarID:                  n.Car.ID,
			Buyer:                  n.Buyer,
			TotalAmount:            n.Sale.TotalAmount,
			SellerAcquisitionPrice: n.Seller.AcquisitionPrice,
			PreSaleExpenses:        n.Sale.PreSaleExpenses,
			Payments:               n.Sale.Payments,
			Notes:                  n.Sale.Notes,
		}, shape, nil
	}

	var f flatSale
	if err := json.Unmarshal(raw, &f); err != nil {
		return SaleInput{}, "", fmt.Errorf("invalid sale: %w", err)
	}
	in := SaleInput{
		CarID:                  f.CarID,
		Buyer:                  Buyer{Name: f.BuyerName, Phone: f.BuyerPhone, Email: f.BuyerEmail, Address: f.BuyerAddress},
		TotalAmount:            f.TotalAmount,
		SellerAcquisitionPrice: f.SellerAcquisitionPrice,
		PreSaleExpenses:        f.PreSaleExpenses,
		Payments:               f.Payments,
		Notes:                  f.Notes,
	}
	if f.Buyer != nil {
		in.Buyer = *f.Buyer
	}
	return in, shape, nil
}

type nestedSellRequest struct {
	Car struct {
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
		AskingPrice        Money    `json:"asking_price"`
		HasLoan            bool     `json:"has_loan"`
		LoanOutstanding    *Money   `json:"loan_outstanding_amount"`
	} `json:"car"`
	Seller struct {
		Name  string  `json:"name"`
		Phone string  `json:"phone"`
		Email *string `json:"email"`
	} `json:"seller"`
}

// NormalizeSellRequest decodes a sell request in either layout.
func NormalizeSellRequest(raw []byte) (SellRequestInput, Shape, error) {
	shape, err := detectShape(raw)
	if err != nil {
		return SellRequestInput{}, "", err
	}
	if shape == ShapeFlat {
		var in SellRequestInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return SellRequestInput{}, "", fmt.Errorf("invalid sell request: %w", err)
		}
		return in, shape, nil
	}

	var n nestedSellRequest
	if err := json.Unmarshal(raw, &n); err != nil {
		return SellRequestInput{}, "", fmt.Errorf("invalid nested sell request: %w", err)
	}
	c := n.Car
	return SellRequestInput{
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
		AskingPrice:        c.AskingPrice,
		HasLoan:            c.HasLoan,
		LoanOutstanding:    c.LoanOutstanding,
		SellerName:         n.Seller.Name,
		SellerPhone:        n.Seller.Phone,
		SellerEmail:        n.Seller.Email,
	}, shape, nil
}
