package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/satheeshds/autodealer/db"
	"github.com/satheeshds/autodealer/session"
	"github.com/satheeshds/autodealer/views"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	Store    *db.Store
	Sessions *session.Manager
	Views    *views.Renderer
	Now      func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// NewRouter wires the API. Public submissions and login are rate limited to
// publicRatePerMin per client; everything under the admin group needs a
// session.
func NewRouter(h *Handler, publicRatePerMin int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalogue
		r.Get("/cars", h.ListPublicCars)
		r.Get("/cars/{id}", h.GetPublicCar)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(publicRatePerMin))
			r.Post("/sell-requests", h.CreateSellRequest)
			r.Post("/contact", h.CreateInquiry)
			r.Post("/auth/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/session", h.CurrentSession)

			// Car moderation
			r.Get("/admin/cars", h.ListCars)
			r.Get("/admin/cars/{id}", h.GetCar)
			r.Post("/cars/{id}/approve", h.ApproveCar)
			r.Post("/cars/{id}/reject", h.RejectCar)
			r.Get("/cars/{id}/documents", h.ListDocuments)
			r.Post("/cars/{id}/documents", h.AddDocument)

			// Sales ledger
			r.Get("/sales", h.ListSales)
			r.Post("/sales", h.CreateSale)
			r.Get("/sales/{id}", h.GetSale)
			r.Post("/sales/{id}/payments", h.RecordPayment)
			r.Post("/sales/{id}/expenses", h.AddExpense)
			r.Get("/sales/{id}/invoice", h.SaleInvoice)
			r.Get("/sales/{id}/payments/{invoice}/receipt", h.PaymentReceipt)

			// Session vocabulary
			r.Get("/labels", h.ListLabels)
			r.Post("/labels", h.AddLabel)

			r.Get("/dashboard", h.GetDashboard)
			r.Get("/inquiries", h.ListInquiries)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	return r
}

// pathID parses the {name} URL parameter as a positive integer id.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
