// Package views renders the buyer-facing documents of a sale: the receipt for
// a single payment and the final sale invoice.
package views

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/reconcile"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrPaymentNotFound is returned by Receipt when the sale has no payment with
// the requested invoice number.
var ErrPaymentNotFound = errors.New("payment not found")

// Dealer is printed in the header of every document.
type Dealer struct {
	Name    string
	Address string
	GSTIN   string
}

// Renderer executes the embedded templates.
type Renderer struct {
	dealer Dealer
	tpl    *template.Template
	now    func() time.Time
}

func New(d Dealer) *Renderer {
	tpl := template.Must(template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &Renderer{dealer: d, tpl: tpl, now: time.Now}
}

var funcs = template.FuncMap{
	"inr":     FormatINR,
	"ordinal": humanize.Ordinal,
	"date":    func(t time.Time) string { return t.Format("02 Jan 2006") },
}

// FormatINR formats paise as rupees with Indian digit grouping:
// 45000000 paise is "₹4,50,000.00".
func FormatINR(m reconcile.Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
	}
	fixed := m.Rupees().Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "₹" + groupIndian(whole) + "." + frac
}

// groupIndian separates the last three digits, then every two before them.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	first := len(head) % 2
	if first == 0 {
		first = 2
	}
	b.WriteString(head[:first])
	for i := first; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

type invoiceData struct {
	Dealer   Dealer
	Sale     *models.Sale
	Issued   time.Time
	Settled  bool
	Document string
}

// Invoice writes the final sale invoice. A sale that is not fully paid is
// rendered as a proforma invoice showing the balance due.
func (r *Renderer) Invoice(w io.Writer, sale *models.Sale) error {
	sale.Reconcile()
	d := invoiceData{
		Dealer:   r.dealer,
		Sale:     sale,
		Issued:   r.now(),
		Settled:  sale.Summary.Status == reconcile.StatusPaid,
		Document: "Proforma Invoice",
	}
	if d.Settled {
		d.Document = "Tax Invoice"
	}
	if err := r.tpl.ExecuteTemplate(w, "invoice.html", d); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return nil
}

type receiptData struct {
	Dealer     Dealer
	Sale       *models.Sale
	Payment    reconcile.Payment
	Position   int
	PaidToDate reconcile.Money
	Remaining  reconcile.Money
}

// Receipt writes the receipt for the payment identified by invoiceNumber.
// Paid-to-date and remaining balance are as of that payment, not as of now.
func (r *Renderer) Receipt(w io.Writer, sale *models.Sale, invoiceNumber string) error {
	d := receiptData{Dealer: r.dealer, Sale: sale}
	found := false
	for i, p := range sale.Payments {
		d.PaidToDate += p.Amount
		if p.InvoiceNumber == invoiceNumber {
			d.Payment, d.Position, found = p, i+1, true
			break
		}
	}
	if !found {
		return ErrPaymentNotFound
	}
	d.Remaining = sale.TotalAmount - d.PaidToDate
	if err := r.tpl.ExecuteTemplate(w, "receipt.html", d); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}
