package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"lifeos/internal/amqp"
	"lifeos/internal/config"
	apphttp "lifeos/internal/http"
	"lifeos/internal/ledger"
	"lifeos/internal/payments"
	"lifeos/internal/store"
	"lifeos/internal/suggest"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Error("Failed to initialize Sentry", "error", err)
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
		logger.Info("Sentry error reporting enabled")
	}

	st, err := store.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer st.Close()

	// Mirror sync publishing is best-effort: a missing broker downgrades
	// the app, it does not stop it.
	var publisher ledger.SyncPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without mirror sync", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := ledger.New(st, publisher)
	if _, err := svc.LoadState(context.Background()); err != nil {
		logger.Error("Failed to load ledger state", "error", err)
		os.Exit(1)
	}

	suggester := suggest.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SuggestTimeout)
	if cfg.GeminiAPIKey == "" {
		logger.Info("Gemini disabled - serving rule-based suggestions only")
	}

	var provider payments.Provider
	switch cfg.PaymentProvider {
	case "stripe":
		provider = payments.NewStripeClient(cfg.StripeBaseURL, cfg.StripeSecretKey, cfg.PaymentRetryMax)
		logger.Info("Initialized Stripe payments")
	case "razorpay":
		provider = payments.NewRazorpayClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.PaymentRetryMax)
		logger.Info("Initialized Razorpay payments")
	default:
		logger.Info("Payments disabled")
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, suggester, provider, st)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting lifeos server", "port", cfg.Port, "payments", cfg.PaymentProvider)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
