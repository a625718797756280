// Package payments holds thin clients for the checkout endpoints of the
// supported payment providers. Each call is a single request/response;
// retries are off by default and webhooks/reconciliation are out of scope.
package payments

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultTimeout = 30 * time.Second

// CheckoutRequest describes what the user is paying for.
type CheckoutRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	SuccessURL  string `json:"success_url,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
	Receipt     string `json:"receipt,omitempty"`
}

// CheckoutResult is the provider-neutral outcome: an ID to track and,
// where the provider supports hosted checkout, a URL to redirect to.
type CheckoutResult struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Provider creates a checkout session or order with a payment provider.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (r CheckoutRequest) validate() error {
	if r.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", r.AmountCents)
	}
	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	return nil
}

// newHTTPClient builds the shared retrying client. retryMax 0 keeps the
// original single-shot semantics; operators can turn retries on knowing
// the providers treat repeated creates as distinct orders.
func newHTTPClient(retryMax int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient = &http.Client{Timeout: defaultTimeout}
	client.Logger = nil
	return client
}
