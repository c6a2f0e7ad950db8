// ABOUTME: Bill generation preview endpoint
// ABOUTME: Computes itemized and metered charges without touching the backend

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/services"
)

// BillPreview turns a bill draft into an itemized bill with line amounts and
// the aggregated total. Nothing is persisted; managers review the preview and
// then POST the final bill through the proxy.
func (h *Handler) BillPreview(w http.ResponseWriter, r *http.Request) {
	var input models.BillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := services.ValidatePeriod(input.Period); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	bill, err := models.GenerateBill(input)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, bill)
}
