package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/autodealer/views"
)

// SaleInvoice renders the sale invoice
// @Summary      Sale invoice
// @Description  HTML invoice for the sale. Shown as a proforma invoice until the sale is fully paid.
// @Tags         documents
// @Produce      html
// @Param        id   path      int  true  "Sale ID"
// @Success      200  {string}  string  "HTML document"
// @Failure      404  {object}  Response{error=string}
// @Router       /sales/{id}/invoice [get]
// @Security     BearerAuth
func (h *Handler) SaleInvoice(w http.ResponseWriter, r *http.Request) {
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
	var buf bytes.Buffer
	if err := h.Views.Invoice(&buf, &sale); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

// PaymentReceipt renders the receipt for one payment
// @Summary      Payment receipt
// @Tags         documents
// @Produce      html
// @Param        id       path      int     true  "Sale ID"
// @Param        invoice  path      string  true  "Invoice number, e.g. INV-12-002"
// @Success      200      {string}  string  "HTML document"
// @Failure      404      {object}  Response{error=string}
// @Router       /sales/{id}/payments/{invoice}/receipt [get]
// @Security     BearerAuth
func (h *Handler) PaymentReceipt(w http.ResponseWriter, r *http.Request) {
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
	var buf bytes.Buffer
	err = h.Views.Receipt(&buf, &sale, chi.URLParam(r, "invoice"))
	if errors.Is(err, views.ErrPaymentNotFound) {
		writeError(w, http.StatusNotFound, "payment not found")
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
