package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"lifeos/internal/core"
)

// handleSuggestion returns the contextual suggestion for the current hour
// and wallet balance. Model output is cached per rule and hour so repeated
// polls within the same context do not re-hit the model; the balance that
// selects the rule is recomputed fresh on every request.
func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	now := time.Now()
	balance := s.ledger.WalletBalance().Remaining
	picked := core.PickSuggestion(now.Hour(), balance, now)

	cacheKey := fmt.Sprintf("%s:%d", picked.ID, now.Hour())
	if cached, ok := s.suggestionCache.Get(cacheKey); ok {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		atomic.AddInt64(&s.appMetrics.suggestionsServed, 1)
		writeJSON(w, http.StatusOK, toSuggestionJSON(cached))
		return
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	suggestion := s.suggest.Generate(r.Context(), now.Hour(), balance)
	s.suggestionCache.Set(cacheKey, suggestion)

	atomic.AddInt64(&s.appMetrics.suggestionsServed, 1)
	writeJSON(w, http.StatusOK, toSuggestionJSON(suggestion))
}
