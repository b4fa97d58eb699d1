package handlers

import (
	"francoggm/versapay-checkout/internal/app/sale"
	"francoggm/versapay-checkout/internal/models"
	"net/http"
)

type saleRequest struct {
	Order  models.OrderContext `json:"order"`
	Fields map[string]string   `json:"fields"`
}

type saleResponse struct {
	OrderID      string            `json:"orderId"`
	ApprovalCode string            `json:"approvalCode"`
	Fields       map[string]string `json:"fields,omitempty"`
}

func (h *Handlers) FinalizeSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Order.CheckoutID == "" {
		if cookie, err := r.Cookie(h.cfg.Checkout.CookieName); err == nil {
			req.Order.CheckoutID = cookie.Value
		}
	}

	result, err := h.finalizer.Finalize(r.Context(), req.Order, sale.SubmittedFields(req.Fields))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := saleResponse{
		OrderID:      result.OrderID,
		ApprovalCode: result.ApprovalCode,
	}
	if !result.Bridged {
		resp.Fields = sale.EchoFields(result)
	}

	writeJSON(w, http.StatusOK, resp)
}
