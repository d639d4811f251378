package handlers

import (
	"net/http"

	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/models"
)

// CreateInquiry stores a message from the public contact form
// @Summary      Send inquiry
// @Description  Public contact form. An optional car_id links the inquiry to a live listing.
// @Tags         inquiries
// @Accept       json
// @Produce      json
// @Param        inquiry  body      models.InquiryInput  true  "Inquiry"
// @Success      201      {object}  Response{data=models.Inquiry}
// @Failure      400      {object}  Response{error=string}
// @Failure      429      {object}  Response{error=string}
// @Router       /contact [post]
func (h *Handler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var input models.InquiryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	inq, err := h.Store.CreateInquiry(r.Context(), input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info().Int64("inquiry_id", inq.ID).Msg("inquiry received")
	writeJSON(w, http.StatusCreated, inq)
}

// ListInquiries lists contact form messages
// @Summary      List inquiries
// @Tags         inquiries
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Inquiry}
// @Router       /inquiries [get]
// @Security     BearerAuth
func (h *Handler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListInquiries(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Inquiry{}
	}
	writeJSON(w, http.StatusOK, list)
}
