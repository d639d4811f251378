package models

import (
	"math"
	"testing"
	"time"

	"github.com/satheeshds/autodealer/reconcile"
)

var now = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func validSellRequest() SellRequestInput {
	return SellRequestInput{
		Brand:              "Honda",
		Model:              "City",
		Year:               2019,
		FuelType:           "Petrol",
		KmDriven:           42000,
		Owners:             1,
		RegistrationNumber: "ka-05 mn 4321",
		SellerName:         "Suresh",
		SellerPhone:        "98860 11223",
		AskingPrice:        65000000,
	}
}

func TestSellRequestInput_Validate(t *testing.T) {
	loan := Money(10000000)
	zero := Money(0)
	huge := Money(math.MaxInt64)
	auto := "Automatic"
	cvt := "CVT"

	tests := []struct {
		name   string
		mutate func(*SellRequestInput)
		want   string
	}{
		{"valid", func(*SellRequestInput) {}, ""},
		{"missing brand", func(s *SellRequestInput) { s.Brand = "  " }, "brand is required"},
		{"html only brand", func(s *SellRequestInput) { s.Brand = "<b></b>" }, "brand is required"},
		{"old year", func(s *SellRequestInput) { s.Year = 1975 }, "year must be between 1980 and 2027"},
		{"future year", func(s *SellRequestInput) { s.Year = 2028 }, "year must be between 1980 and 2027"},
		{"bad fuel", func(s *SellRequestInput) { s.FuelType = "steam" }, "fuel_type must be one of: petrol, diesel, cng, lpg, electric, hybrid"},
		{"negative km", func(s *SellRequestInput) { s.KmDriven = -1 }, "km_driven must be non-negative"},
		{"short registration", func(s *SellRequestInput) { s.RegistrationNumber = "KA1" }, "registration_number is not valid"},
		{"bad phone", func(s *SellRequestInput) { s.SellerPhone = "12345" }, "seller_phone must be a 10 digit mobile number"},
		{"zero price", func(s *SellRequestInput) { s.AskingPrice = 0 }, "asking_price must be positive"},
		{"loan without amount", func(s *SellRequestInput) { s.HasLoan = true }, "loan_outstanding_amount is required when has_loan is true"},
		{"loan with zero amount", func(s *SellRequestInput) { s.HasLoan = true; s.LoanOutstanding = &zero }, "loan_outstanding_amount is required when has_loan is true"},
		{"loan with amount", func(s *SellRequestInput) { s.HasLoan = true; s.LoanOutstanding = &loan }, ""},
		{"loan above max", func(s *SellRequestInput) { s.HasLoan = true; s.LoanOutstanding = &huge }, "loan_outstanding_amount is too large"},
		{"price above max", func(s *SellRequestInput) { s.AskingPrice = huge }, "asking_price is too large"},
		{"automatic", func(s *SellRequestInput) { s.Transmission = &auto }, ""},
		{"unknown transmission", func(s *SellRequestInput) { s.Transmission = &cvt }, "transmission must be manual or automatic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSellRequest()
			tt.mutate(&in)
			if got := in.Validate(now); got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSellRequestInput_ValidateNormalizes(t *testing.T) {
	in := validSellRequest()
	in.HasLoan = false
	loan := Money(5)
	in.LoanOutstanding = &loan
	in.Images = []string{" https://img/1.jpg ", "", "<script>x</script>"}
	in.Brand = "<i>Honda</i>"

	if msg := in.Validate(now); msg != "" {
		t.Fatalf("Validate() = %q", msg)
	}
	if in.RegistrationNumber != "KA05MN4321" {
		t.Errorf("RegistrationNumber = %q", in.RegistrationNumber)
	}
	if in.SellerPhone != "9886011223" {
		t.Errorf("SellerPhone = %q", in.SellerPhone)
	}
	if in.FuelType != "petrol" {
		t.Errorf("FuelType = %q", in.FuelType)
	}
	if in.Brand != "Honda" {
		t.Errorf("Brand = %q", in.Brand)
	}
	if in.LoanOutstanding != nil {
		t.Error("LoanOutstanding should be cleared when has_loan is false")
	}
	if len(in.Images) != 1 || in.Images[0] != "https://img/1.jpg" {
		t.Errorf("Images = %v", in.Images)
	}
}

func TestCar_TitleAndPublic(t *testing.T) {
	variant := "VX"
	price := Money(70000000)
	payout := Money(60000000)
	c := Car{ID: 4, Brand: "Honda", Model: "City", Variant: &variant, Year: 2019, ListingPrice: &price, SellerPayout: &payout}

	if got := c.Title(); got != "2019 Honda City VX" {
		t.Errorf("Title() = %q", got)
	}
	p := c.Public()
	if p.Price != price {
		t.Errorf("Price = %d", p.Price)
	}
	if p.Images == nil {
		t.Error("Images should be non-nil")
	}
}

func TestSaleInput_Validate(t *testing.T) {
	neg := Money(-1)
	huge := Money(math.MaxInt64)
	tests := []struct {
		name string
		in   SaleInput
		want string
	}{
		{"missing car", SaleInput{Buyer: Buyer{Name: "A", Phone: "9999999999"}}, "car_id is required"},
		{"missing buyer", SaleInput{CarID: 1}, "buyer name and phone are required"},
		{"bad phone", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "99"}}, "buyer phone must be a 10 digit mobile number"},
		{"negative total", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "9999999999"}, TotalAmount: -1}, "total_amount must be non-negative"},
		{"negative cost", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "9999999999"}, SellerAcquisitionPrice: &neg}, "seller_acquisition_price must be non-negative"},
		{"total above max", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "9999999999"}, TotalAmount: reconcile.MaxAmount + 1}, "total_amount is too large"},
		{"cost above max", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "9999999999"}, SellerAcquisitionPrice: &huge}, "seller_acquisition_price is too large"},
		{"pre-sale expense above max", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "9999999999"}, PreSaleExpenses: []reconcile.Expense{{Label: "Paint", Amount: huge}}}, "pre_sale_expenses: amount is too large"},
		{"ok", SaleInput{CarID: 1, Buyer: Buyer{Name: "A", Phone: "9999999999"}, TotalAmount: 10}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Validate(); got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInquiryAndDocumentInput_Validate(t *testing.T) {
	bad := "not-an-email"
	inq := InquiryInput{Name: "A", Phone: "9999999999", Email: &bad, Message: "hi"}
	if got := inq.Validate(); got != "email is not valid" {
		t.Errorf("Inquiry Validate() = %q", got)
	}

	doc := DocumentInput{Label: "RC Book", FileURL: "ftp://x/y"}
	if got := doc.Validate(); got != "file_url must be an http(s) URL" {
		t.Errorf("Document Validate() = %q", got)
	}
	doc.FileURL = "https://files.example.com/rc.pdf"
	if got := doc.Validate(); got != "" {
		t.Errorf("Document Validate() = %q", got)
	}
}

func TestAmountsAboveMaxRejected(t *testing.T) {
	huge := reconcile.MaxAmount + 1
	payout := Money(math.MaxInt64)

	approve := ApproveInput{ListingPrice: huge}
	if got := approve.Validate(); got != "listing_price is too large" {
		t.Errorf("Approve Validate() = %q", got)
	}
	approve = ApproveInput{ListingPrice: 500000, SellerPayout: &payout}
	if got := approve.Validate(); got != "seller_payout is too large" {
		t.Errorf("Approve Validate() = %q", got)
	}

	exp := ExpenseInput{Label: "Insurance", Amount: huge}
	if got := exp.Validate(); got != "amount is too large" {
		t.Errorf("Expense Validate() = %q", got)
	}
	exp = ExpenseInput{Label: "Insurance", Amount: reconcile.MaxAmount}
	if got := exp.Validate(); got != "" {
		t.Errorf("Expense Validate() = %q", got)
	}
}
