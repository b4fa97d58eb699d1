package handlers

import (
	"francoggm/versapay-checkout/internal/models"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type persistRequest struct {
	CheckoutID           string `json:"checkoutId"`
	VersapayOrderID      string `json:"versapayOrderId"`
	VersapayApprovalCode string `json:"versapayApprovalCode"`
}

func (h *Handlers) PersistPayment(w http.ResponseWriter, r *http.Request) {
	var req persistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	echoed := models.OrderMeta{
		VersapayOrderID: req.VersapayOrderID,
		ApprovalCode:    req.VersapayApprovalCode,
	}

	meta, err := h.recorder.Persist(r.Context(), chi.URLParam(r, "orderID"), req.CheckoutID, echoed)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	meta, err := h.recorder.Lookup(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}
