package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"lifeos/internal/core"
	"lifeos/internal/log"
	"lifeos/internal/payments"
)

// handleCheckout creates a checkout session with the configured payment
// provider. Returns 503 when no provider is configured.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if s.checkout == nil {
		writeError(w, http.StatusServiceUnavailable, "payments not configured")
		return
	}

	var req struct {
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
		SuccessURL  string `json:"success_url"`
		CancelURL   string `json:"cancel_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil || cents == 0 {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	result, err := s.checkout.CreateCheckout(r.Context(), payments.CheckoutRequest{
		AmountCents: cents,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Description: sanitizeInput(req.Description),
		SuccessURL:  strings.TrimSpace(req.SuccessURL),
		CancelURL:   strings.TrimSpace(req.CancelURL),
	})
	if err != nil {
		var apiErr *payments.APIError
		if errors.As(err, &apiErr) {
			s.logger.ErrorContext(r.Context(), "Provider rejected checkout",
				"provider", apiErr.Provider,
				"provider_status", apiErr.StatusCode,
				log.FieldOperation, "create_checkout")
			writeError(w, http.StatusBadGateway, "payment provider rejected the request")
			return
		}
		s.logger.ErrorContext(r.Context(), "Checkout failed",
			"error", err,
			log.FieldOperation, "create_checkout")
		writeError(w, http.StatusInternalServerError, "failed to create checkout")
		return
	}

	atomic.AddInt64(&s.appMetrics.checkoutSessions, 1)

	s.logger.InfoContext(r.Context(), "Checkout session created",
		"provider", result.Provider,
		"checkout_id", result.ID,
		"amount_cents", cents)

	writeJSON(w, http.StatusCreated, result)
}
