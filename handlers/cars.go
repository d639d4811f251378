package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/session"
)

const maxBodyBytes = 1 << 20

func carFilterFrom(r *http.Request) (models.CarFilter, string) {
	q := r.URL.Query()
	f := models.CarFilter{
		Status:   q.Get("status"),
		Brand:    q.Get("brand"),
		FuelType: q.Get("fuel_type"),
		Search:   q.Get("search"),
	}
	for name, dst := range map[string]*models.Money{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		if v := q.Get(name); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				return f, name + " must be a non-negative integer amount in paise"
			}
			*dst = models.Money(n)
		}
	}
	return f, ""
}

// ListPublicCars lists cars open for sale
// @Summary      List live cars
// @Description  Public catalogue of approved cars. Seller details and internal prices are omitted.
// @Tags         cars
// @Produce      json
// @Param        brand      query     string  false  "Filter by brand"
// @Param        fuel_type  query     string  false  "Filter by fuel type"
// @Param        min_price  query     int     false  "Minimum listing price (paise)"
// @Param        max_price  query     int     false  "Maximum listing price (paise)"
// @Param        search     query     string  false  "Search brand, model or variant"
// @Success      200        {object}  Response{data=[]models.PublicCar}
// @Failure      400        {object}  Response{error=string}
// @Router       /cars [get]
func (h *Handler) ListPublicCars(w http.ResponseWriter, r *http.Request) {
	f, msg := carFilterFrom(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	f.Status = models.CarLive

	cars, err := h.Store.ListCars(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]models.PublicCar, 0, len(cars))
	for i := range cars {
		out = append(out, cars[i].Public())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPublicCar returns one live car
// @Summary      Get live car
// @Tags         cars
// @Produce      json
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  Response{data=models.PublicCar}
// @Failure      404  {object}  Response{error=string}
// @Router       /cars/{id} [get]
func (h *Handler) GetPublicCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	c, err := h.Store.GetCar(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if c.Status != models.CarLive {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	writeJSON(w, http.StatusOK, c.Public())
}

type sellRequestReceipt struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// CreateSellRequest accepts a car from a private seller
// @Summary      Submit sell request
// @Description  Public form submission. Accepts the flat layout or the nested {car, seller} layout. The car starts as pending until an admin approves it.
// @Tags         cars
// @Accept       json
// @Produce      json
// @Param        request  body      models.SellRequestInput  true  "Car and seller details"
// @Success      201      {object}  Response{data=sellRequestReceipt}
// @Failure      400      {object}  Response{error=string}
// @Failure      429      {object}  Response{error=string}
// @Router       /sell-requests [post]
func (h *Handler) CreateSellRequest(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	in, shape, err := models.NormalizeSellRequest(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.Validate(h.now()); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.Store.CreateSellRequest(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info().Int64("car_id", c.ID).Str("shape", string(shape)).Msg("sell request received")
	writeJSON(w, http.StatusCreated, sellRequestReceipt{ID: c.ID, Status: c.Status})
}

// ListCars lists cars in any state
// @Summary      List cars (admin)
// @Tags         admin
// @Produce      json
// @Param        status     query     string  false  "pending, live, rejected or sold"
// @Param        brand      query     string  false  "Filter by brand"
// @Param        fuel_type  query     string  false  "Filter by fuel type"
// @Param        search     query     string  false  "Search brand, model, variant or registration"
// @Success      200        {object}  Response{data=[]models.Car}
// @Router       /admin/cars [get]
// @Security     BearerAuth
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	f, msg := carFilterFrom(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	switch f.Status {
	case "", models.CarPending, models.CarLive, models.CarRejected, models.CarSold:
	default:
		writeError(w, http.StatusBadRequest, "status must be one of: pending, live, rejected, sold")
		return
	}
	cars, err := h.Store.ListCars(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	writeJSON(w, http.StatusOK, cars)
}

// GetCar returns a car with seller details
// @Summary      Get car (admin)
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  Response{data=models.Car}
// @Failure      404  {object}  Response{error=string}
// @Router       /admin/cars/{id} [get]
// @Security     BearerAuth
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	c, err := h.Store.GetCar(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ApproveCar publishes a pending car
// @Summary      Approve car
// @Description  Sets the listing price and the agreed seller payout, and makes the car live. The payout defaults to the asking price.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id        path      int                  true  "Car ID"
// @Param        approval  body      models.ApproveInput  true  "Prices"
// @Success      200       {object}  Response{data=models.Car}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Failure      409       {object}  Response{error=string}
// @Router       /cars/{id}/approve [post]
// @Security     BearerAuth
func (h *Handler) ApproveCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	var input models.ApproveInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	c, err := h.Store.ApproveCar(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RejectCar declines a pending car
// @Summary      Reject car
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id         path      int                 true  "Car ID"
// @Param        rejection  body      models.RejectInput  true  "Reason"
// @Success      200        {object}  Response{data=models.Car}
// @Failure      400        {object}  Response{error=string}
// @Failure      409        {object}  Response{error=string}
// @Router       /cars/{id}/reject [post]
// @Security     BearerAuth
func (h *Handler) RejectCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	var input models.RejectInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	c, err := h.Store.RejectCar(r.Context(), id, input.Reason)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListDocuments lists a car's paperwork
// @Summary      List car documents
// @Tags         documents
// @Produce      json
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  Response{data=[]models.Document}
// @Router       /cars/{id}/documents [get]
// @Security     BearerAuth
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	docs, err := h.Store.ListDocuments(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// AddDocument records a document uploaded elsewhere
// @Summary      Add car document
// @Description  Stores the label and file URL. The label joins the session's document vocabulary.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id        path      int                   true  "Car ID"
// @Param        document  body      models.DocumentInput  true  "Document metadata"
// @Success      201       {object}  Response{data=models.Document}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /cars/{id}/documents [post]
// @Security     BearerAuth
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "car not found")
		return
	}
	var input models.DocumentInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	d, err := h.Store.AddDocument(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if s := sessionFrom(r.Context()); s != nil {
		s.AddLabel(session.KindDocument, d.Label)
	}
	writeJSON(w, http.StatusCreated, d)
}
