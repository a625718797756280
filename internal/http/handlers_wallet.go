package http

import (
	"net/http"
	"sort"
)

// handleWallet returns the monthly balance, recomputed on every call.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	writeJSON(w, http.StatusOK, toWalletJSON(s.ledger.WalletBalance()))
}

// handleSpending returns expense totals for the whole ledger grouped by
// category, sorted by amount descending for stable output.
func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	byCategory := s.ledger.SpendingByCategory()

	type categoryRow struct {
		Category    string `json:"category"`
		AmountCents int64  `json:"amount_cents"`
	}
	rows := make([]categoryRow, 0, len(byCategory))
	for cat, amount := range byCategory {
		rows = append(rows, categoryRow{Category: cat, AmountCents: amount.Cents})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AmountCents != rows[j].AmountCents {
			return rows[i].AmountCents > rows[j].AmountCents
		}
		return rows[i].Category < rows[j].Category
	})

	writeJSON(w, http.StatusOK, struct {
		Categories []categoryRow `json:"categories"`
	}{Categories: rows})
}
