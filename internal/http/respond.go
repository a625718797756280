package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lifeos/internal/core"
)

// isValidationError reports whether err is a domain validation failure,
// which maps to 422 rather than 500.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrNegativeAmount,
		core.ErrInvalidType,
		core.ErrEmptyCategory,
		core.ErrEmptyName,
		core.ErrZeroDate,
		core.ErrDescriptionLong,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// transactionJSON is the wire shape of a ledger record.
type transactionJSON struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}

type walletJSON struct {
	TotalCents         int64 `json:"total_cents"`
	SpentCents         int64 `json:"spent_cents"`
	RemainingCents     int64 `json:"remaining_cents"`
	MonthlyBudgetCents int64 `json:"monthly_budget_cents"`
}

type profileJSON struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	MonthlyIncomeCents int64  `json:"monthly_income_cents"`
	CreatedAt          string `json:"created_at"`
}

type suggestionJSON struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Actionable bool   `json:"actionable"`
	CreatedAt  string `json:"created_at"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Type:        string(tx.Type),
		AmountCents: tx.Amount.Cents,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.Format(time.RFC3339),
	}
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}

func toWalletJSON(b core.WalletBalance) walletJSON {
	return walletJSON{
		TotalCents:         b.Total.Cents,
		SpentCents:         b.Spent.Cents,
		RemainingCents:     b.Remaining.Cents,
		MonthlyBudgetCents: b.MonthlyBudget.Cents,
	}
}

func toProfileJSON(p core.UserProfile) profileJSON {
	return profileJSON{
		ID:                 p.ID,
		Name:               p.Name,
		MonthlyIncomeCents: p.MonthlyIncome.Cents,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
	}
}

func toSuggestionJSON(sg core.Suggestion) suggestionJSON {
	return suggestionJSON{
		ID:         sg.ID,
		Message:    sg.Message,
		Type:       string(sg.Type),
		Actionable: sg.Actionable,
		CreatedAt:  sg.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
