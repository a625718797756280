package payments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const stripeProvider = "stripe"

// StripeClient creates hosted checkout sessions via the Stripe REST API.
type StripeClient struct {
	baseURL   string
	secretKey string
	client    *retryablehttp.Client
}

var _ Provider = (*StripeClient)(nil)

func NewStripeClient(baseURL, secretKey string, retryMax int) *StripeClient {
	return &StripeClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    newHTTPClient(retryMax),
	}
}

type stripeSessionResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// CreateCheckout posts a form-encoded checkout session request and returns
// the session ID and hosted checkout URL.
func (c *StripeClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := req.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid checkout request")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Description)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "build stripe request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "stripe checkout session request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read stripe response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Provider: stripeProvider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var session stripeSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, errors.Wrap(err, "decode stripe response")
	}
	if session.ID == "" {
		return nil, errors.New("stripe response missing session id")
	}

	return &CheckoutResult{
		Provider: stripeProvider,
		ID:       session.ID,
		URL:      session.URL,
		Status:   session.Status,
	}, nil
}
