package handlers

import (
	"net/http"

	"github.com/satheeshds/autodealer/reconcile"
)

type dashboardData struct {
	Portfolio reconcile.Portfolio `json:"portfolio"`
	// Cars counts cars per lifecycle state.
	Cars map[string]int `json:"cars"`
}

// GetDashboard retrieves portfolio statistics
// @Summary      Get dashboard
// @Description  Cash received, pending collection, realised profit, unrealised loss and average margin across all sales, plus car counts per state.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.SaleRecords(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	counts, err := h.Store.CountCarsByStatus(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardData{
		Portfolio: reconcile.AggregatePortfolio(records),
		Cars:      counts,
	})
}
