package handlers

import (
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type walletRequest struct {
	WalletID string `json:"walletId"`
}

// SetWallet lets an admin attach an existing processor wallet to a customer.
func (h *Handlers) SetWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.WalletID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "walletId is required"})
		return
	}

	wallet := models.Wallet{
		WalletID:   strings.TrimSpace(req.WalletID),
		CustomerID: chi.URLParam(r, "customerID"),
	}

	if err := h.wallets.Set(r.Context(), wallet); err != nil {
		slog.Error("failed to set wallet", "customer_id", wallet.CustomerID, "err", err)
		http.Error(w, "failed to set wallet", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
