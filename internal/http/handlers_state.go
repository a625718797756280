package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"lifeos/internal/core"
	"lifeos/internal/log"
)

// handleState returns the full application state in one round trip, so a
// client can hydrate without chaining requests.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	snap := s.ledger.Snapshot()

	resp := struct {
		Onboarded    bool              `json:"onboarded"`
		User         *profileJSON      `json:"user"`
		Wallet       walletJSON        `json:"wallet"`
		Transactions []transactionJSON `json:"transactions"`
	}{
		Onboarded:    snap.Onboarded,
		Wallet:       toWalletJSON(s.ledger.WalletBalance()),
		Transactions: toTransactionsJSON(snap.Transactions),
	}
	if snap.Profile != nil {
		p := toProfileJSON(*snap.Profile)
		resp.User = &p
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleOnboarding creates the user profile and marks onboarding complete.
func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if s.ledger.Onboarded() {
		writeError(w, http.StatusConflict, "onboarding already completed")
		return
	}

	var req struct {
		Name          string `json:"name"`
		MonthlyIncome string `json:"monthly_income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.MonthlyIncome))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid monthly income")
		return
	}

	profile, err := s.ledger.SaveUser(r.Context(), core.UserInput{
		Name:          sanitizeInput(req.Name),
		MonthlyIncome: core.Money{Cents: cents},
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save user profile",
			"error", err,
			log.FieldOperation, "save_user")
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileJSON(profile))
}

// sanitizeInput trims whitespace, strips control characters, and caps
// length. The cut always lands on a rune boundary so a multi-byte
// character is never split.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if len(s) > 200 {
		cut := 200
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
