package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const razorpayProvider = "razorpay"

// RazorpayClient creates payment orders via the Razorpay REST API.
type RazorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *retryablehttp.Client
}

var _ Provider = (*RazorpayClient)(nil)

func NewRazorpayClient(baseURL, keyID, keySecret string, retryMax int) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    newHTTPClient(retryMax),
	}
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateCheckout posts an order creation request. Razorpay has no hosted
// checkout URL at this step; the client SDK opens checkout from the order ID.
func (c *RazorpayClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := req.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid checkout request")
	}

	payload, err := json.Marshal(razorpayOrderRequest{
		Amount:   req.AmountCents,
		Currency: strings.ToUpper(req.Currency),
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal razorpay order")
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build razorpay request")
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "razorpay order request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read razorpay response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Provider: razorpayProvider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var order razorpayOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, errors.Wrap(err, "decode razorpay response")
	}
	if order.ID == "" {
		return nil, errors.New("razorpay response missing order id")
	}

	return &CheckoutResult{
		Provider: razorpayProvider,
		ID:       order.ID,
		Status:   order.Status,
	}, nil
}
