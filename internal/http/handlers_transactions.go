package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"lifeos/internal/core"
	"lifeos/internal/log"
)

const defaultRecentLimit = 20

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet:
		s.handleListTransactions(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string `json:"type"`
		Amount      string `json:"amount"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse body error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	input := core.TransactionInput{
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
	}
	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, want RFC 3339")
			return
		}
		input.Date = date
	}

	tx, err := s.ledger.AddTransaction(r.Context(), input)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to save transaction",
			"error", err,
			"transaction_type", req.Type,
			"amount_cents", cents,
			"category", input.Category,
			log.FieldOperation, "add_transaction")
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	atomic.AddInt64(&s.appMetrics.totalTransactions, 1)

	// Return the updated wallet alongside the record so clients refresh
	// their balance without a second request.
	writeJSON(w, http.StatusCreated, struct {
		Transaction transactionJSON `json:"transaction"`
		Wallet      walletJSON      `json:"wallet"`
	}{
		Transaction: toTransactionJSON(tx),
		Wallet:      toWalletJSON(s.ledger.WalletBalance()),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	txs := s.ledger.RecentTransactions(limit)

	writeJSON(w, http.StatusOK, struct {
		Transactions []transactionJSON `json:"transactions"`
		Count        int               `json:"count"`
	}{
		Transactions: toTransactionsJSON(txs),
		Count:        len(txs),
	})
}
