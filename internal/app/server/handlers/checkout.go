package handlers

import (
	"errors"
	"francoggm/versapay-checkout/internal/app/session"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type refreshResponse struct {
	Success bool         `json:"success"`
	Data    *refreshData `json:"data,omitempty"`
}

type refreshData struct {
	SessionKey string `json:"sessionKey"`
}

// RenderCheckout returns what the page needs to mount the widget. It sets
// the checkout cookie on first visit.
func (h *Handlers) RenderCheckout(w http.ResponseWriter, r *http.Request) {
	req, err := h.sessionRequest(r)
	if err != nil {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	if req.CheckoutID == "" {
		req.CheckoutID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     h.cfg.Checkout.CookieName,
			Value:    req.CheckoutID,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}

	writeJSON(w, http.StatusOK, h.provisioner.Render(r.Context(), req))
}

// RefreshSession mints a session for the on-demand strategy.
func (h *Handlers) RefreshSession(w http.ResponseWriter, r *http.Request) {
	req, err := h.sessionRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, refreshResponse{Success: false})
		return
	}

	if req.CheckoutID == "" {
		writeJSON(w, http.StatusForbidden, refreshResponse{Success: false})
		return
	}

	sess, err := h.provisioner.Refresh(r.Context(), req, r.FormValue("nonce"))
	if errors.Is(err, session.ErrInvalidNonce) {
		writeJSON(w, http.StatusForbidden, refreshResponse{Success: false})
		return
	}
	if err != nil {
		slog.Error("versapay session refresh failed", "checkout_id", req.CheckoutID, "err", err)
		writeJSON(w, http.StatusBadGateway, refreshResponse{Success: false})
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Success: true,
		Data:    &refreshData{SessionKey: sess.SessionID},
	})
}

func (h *Handlers) sessionRequest(r *http.Request) (session.Request, error) {
	currency := r.FormValue("currency")
	amount, err := models.ParseAmount(r.FormValue("amount"), models.CurrencyPrecision(currency))
	if err != nil {
		return session.Request{}, err
	}

	req := session.Request{
		Amount:     amount,
		Currency:   currency,
		CustomerID: r.Header.Get(customerHeader),
	}

	if cookie, err := r.Cookie(h.cfg.Checkout.CookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			req.CheckoutID = cookie.Value
		}
	}

	return req, nil
}
