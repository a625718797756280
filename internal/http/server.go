// Package http exposes the ledger over a JSON API. Handlers stay thin:
// parsing and shaping here, all ledger semantics in internal/ledger.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"lifeos/internal/cache"
	"lifeos/internal/core"
	"lifeos/internal/ledger"
	"lifeos/internal/log"
	"lifeos/internal/payments"
)

// Suggester produces the contextual suggestion for the current hour and
// wallet balance. *suggest.Generator satisfies it.
type Suggester interface {
	Generate(ctx context.Context, hour int, balance core.Money) core.Suggestion
}

// Pinger reports whether a dependency is reachable. *store.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// appMetrics tracks application-level counters, read by /metrics.
type appMetrics struct {
	uptime            time.Time
	totalRequests     int64
	totalTransactions int64
	suggestionsServed int64
	checkoutSessions  int64
	cacheHits         int64
	cacheMisses       int64
}

type Server struct {
	http.Server
	logger   *log.Logger
	ledger   *ledger.Service
	suggest  Suggester
	checkout payments.Provider
	readyDep Pinger

	rateLimiter *rateLimiter

	// Cached suggestions keyed by rule and hour. The wallet balance itself
	// is never cached; every read recomputes it from the ledger.
	suggestionCache *cache.LRUCache[core.Suggestion]
	cacheManager    *cache.Manager

	appMetrics      appMetrics
	securityMetrics securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. suggester must be non-nil; checkout and ready may be nil
// when those features are not configured.
func NewServer(addr string, lg *ledger.Service, suggester Suggester, checkout payments.Provider, ready Pinger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger:          log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentHTTP}),
		ledger:          lg,
		suggest:         suggester,
		checkout:        checkout,
		readyDep:        ready,
		rateLimiter:     newRateLimiter(),
		suggestionCache: cache.NewLRUCache[core.Suggestion](50, 15*time.Minute),
		cacheManager:    cache.NewManager(),
	}
	s.appMetrics.uptime = time.Now()

	s.cacheManager.Register(s.suggestionCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/api/state", s.withAPI(s.handleState))
	mux.HandleFunc("/api/onboarding", s.withAPI(s.handleOnboarding))
	mux.HandleFunc("/api/transactions", s.withAPI(s.handleTransactions))
	mux.HandleFunc("/api/wallet", s.withAPI(s.handleWallet))
	mux.HandleFunc("/api/spending", s.withAPI(s.handleSpending))
	mux.HandleFunc("/api/suggestion", s.withAPI(s.handleSuggestion))
	mux.HandleFunc("/api/checkout", s.withAPI(s.handleCheckout))

	return s
}

// withAPI adds security headers, rate limiting, and request logging to
// API handlers.
func (s *Server) withAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		atomic.AddInt64(&s.appMetrics.totalRequests, 1)

		s.logger.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if detectSuspiciousRequest(r, &s.securityMetrics) {
			s.logger.WarnContext(ctx, "Suspicious request detected",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
		}

		// Rate limit mutations only; reads stay cheap and local.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, &s.securityMetrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
