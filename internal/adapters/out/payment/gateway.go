// Package payment talks to the external payment provider. Only payment
// intent creation lives here; capture and settlement run entirely on the
// provider's side and are correlated later through the stored reference.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrPaymentsDisabled is returned when no provider is configured. Orders paid
// online cannot be placed in that state; cash orders are unaffected.
var ErrPaymentsDisabled = errors.New("online payments are disabled: no payment provider configured")

// Config holds the payment provider settings. An empty BaseURL disables
// online payments.
type Config struct {
	BaseURL string
	APIKey  string
}

// HTTPGateway implements ports.PaymentGateway against the provider's REST
// API.
type HTTPGateway struct {
	cfg    Config
	client *http.Client
}

// NewHTTPGateway creates a payment gateway client.
func NewHTTPGateway(cfg Config) *HTTPGateway {
	return &HTTPGateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createPaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Receipt     string `json:"receipt"`
}

type createPaymentResponse struct {
	ID string `json:"id"`
}

// CreatePayment registers a payment intent for the order and returns the
// provider's reference.
func (g *HTTPGateway) CreatePayment(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (string, error) {
	if g.cfg.BaseURL == "" {
		return "", ErrPaymentsDisabled
	}

	body, err := json.Marshal(createPaymentRequest{
		AmountCents: amount.Cents(),
		Receipt:     orderID.String(),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create payment: provider returned %s", resp.Status)
	}

	var payment createPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return "", fmt.Errorf("create payment: decode response: %w", err)
	}
	if payment.ID == "" {
		return "", errors.New("create payment: provider returned empty reference")
	}

	return payment.ID, nil
}
