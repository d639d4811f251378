package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/reconcile"
	"github.com/satheeshds/autodealer/session"
)

// CreateSale marks a live car as sold
// @Summary      Create sale
// @Description  Records the sale of a live car with its buyer, deal value, pre-sale costs and any initial payments (e.g. cash down plus loan disbursement). Accepts the flat layout or the nested {car, seller, buyer, sale} layout. Initial payments are checked against the total as a whole; if any would overshoot, nothing is saved.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        sale  body      models.SaleInput  true  "Sale details"
// @Success      201   {object}  Response{data=models.Sale}
// @Failure      400   {object}  Response{error=string}
// @Failure      404   {object}  Response{error=string}
// @Failure      409   {object}  Response{error=string}
// @Router       /sales [post]
// @Security     BearerAuth
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	input, shape, err := models.NormalizeSaleInput(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sale, err := h.Store.CreateSale(r.Context(), input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if s := sessionFrom(r.Context()); s != nil {
		for _, e := range sale.PreSaleExpenses {
			s.AddLabel(session.KindExpense, e.Label)
		}
	}
	logger.FromContext(r.Context()).Info().
		Int64("sale_id", sale.ID).
		Int64("car_id", sale.CarID).
		Str("shape", string(shape)).
		Str("status", string(sale.Summary.Status)).
		Msg("sale recorded")
	writeJSON(w, http.StatusCreated, sale)
}

func saleFilterFrom(r *http.Request) (models.SaleFilter, string) {
	q := r.URL.Query()
	f := models.SaleFilter{Search: strings.TrimSpace(q.Get("search"))}

	if s := q.Get("status"); s != "" {
		switch st := reconcile.Status(strings.ToUpper(s)); st {
		case reconcile.StatusPending, reconcile.StatusPartial, reconcile.StatusPaid:
			f.Status = string(st)
		default:
			return f, "status must be one of: PENDING, PARTIAL, PAID"
		}
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return f, "from must be a date (YYYY-MM-DD)"
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return f, "to must be a date (YYYY-MM-DD)"
		}
		// inclusive of the whole day
		t = t.AddDate(0, 0, 1)
		f.To = &t
	}
	return f, ""
}

// ListSales lists the sales history
// @Summary      List sales
// @Description  Sales newest first, each with its reconciled summary and profit.
// @Tags         sales
// @Produce      json
// @Param        status  query     string  false  "PENDING, PARTIAL or PAID"
// @Param        from    query     string  false  "Sold on or after (YYYY-MM-DD)"
// @Param        to      query     string  false  "Sold on or before (YYYY-MM-DD)"
// @Param        search  query     string  false  "Search buyer, brand, model or registration"
// @Success      200     {object}  Response{data=[]models.Sale}
// @Failure      400     {object}  Response{error=string}
// @Router       /sales [get]
// @Security     BearerAuth
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	f, msg := saleFilterFrom(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	sales, err := h.Store.ListSales(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// GetSale returns a sale with its full ledger
// @Summary      Get sale
// @Tags         sales
// @Produce      json
// @Param        id   path      int  true  "Sale ID"
// @Success      200  {object}  Response{data=models.Sale}
// @Failure      404  {object}  Response{error=string}
// @Router       /sales/{id} [get]
// @Security     BearerAuth
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "sale not found")
		return
	}
	sale, err := h.Store.GetSale(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

type paymentResult struct {
	Payment reconcile.Payment `json:"payment"`
	Summary reconcile.Summary `json:"summary"`
}

// RecordPayment appends a payment to a sale
// @Summary      Record payment
// @Description  Appends a payment with a fresh invoice number. Rejected with 400 when the amount is not positive, the method is unknown, or the payment would take the total paid past the sale value.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Sale ID"
// @Param        payment  body      reconcile.PaymentInput  true  "Payment"
// @Success      201      {object}  Response{data=paymentResult}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /sales/{id}/payments [post]
// @Security     BearerAuth
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "sale not found")
		return
	}
	var input reconcile.PaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input = models.NormalizePayment(input)

	p, err := h.Store.RecordPayment(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	sale, err := h.Store.GetSale(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info().
		Int64("sale_id", id).
		Str("invoice", p.InvoiceNumber).
		Str("status", string(sale.Summary.Status)).
		Msg("payment recorded")
	writeJSON(w, http.StatusCreated, paymentResult{Payment: p, Summary: sale.Summary})
}

type expenseResult struct {
	Expense reconcile.Expense `json:"expense"`
	Profit  reconcile.Profit  `json:"profit"`
}

// AddExpense records a post-sale cost
// @Summary      Add post-sale expense
// @Description  Records an after-sale cost such as RC transfer, RTO change or insurance. The label joins the session's expense vocabulary.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Sale ID"
// @Param        expense  body      models.ExpenseInput  true  "Expense"
// @Success      201      {object}  Response{data=expenseResult}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /sales/{id}/expenses [post]
// @Security     BearerAuth
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "sale not found")
		return
	}
	var input models.ExpenseInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	e, err := h.Store.AddPostSaleExpense(r.Context(), id, input.Label, input.Amount)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if s := sessionFrom(r.Context()); s != nil {
		s.AddLabel(session.KindExpense, e.Label)
	}
	sale, err := h.Store.GetSale(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseResult{Expense: e, Profit: sale.Profit})
}
