package handlers

import (
	"errors"
	"francoggm/versapay-checkout/internal/models"
	"io"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
)

const customerHeader = "X-Customer-Id"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "err", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func decodeJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}

// writeServiceError keeps processor and validation detail out of the
// response body.
func writeServiceError(w http.ResponseWriter, err error) {
	var checkoutErr *models.CheckoutError
	switch {
	case errors.As(err, &checkoutErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: checkoutErr.Public})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		slog.Error("unexpected error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: models.GenericErrorMessage})
	}
}
