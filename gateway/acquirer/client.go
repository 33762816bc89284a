package acquirer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anton-fomenko/payment-gateway/gateway/models"
	"github.com/anton-fomenko/payment-gateway/internal/expiry"
)

// Authorization is the acquiring bank's decision on a payment. The bank
// sends Authorized/AuthorizationCode; matching on decode is case-insensitive,
// so "authorized"/"authorizationCode" parse as well.
type Authorization struct {
	Authorized        bool   `json:"authorized"`
	AuthorizationCode string `json:"authorizationCode"`
}

// StatusError is returned when the bank responds with a non-success status.
// The raw body is kept for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bank returned status %d: %s", e.Code, e.Body)
}

// Client calls the acquiring bank over HTTP. It performs exactly one outbound
// call per invocation and no retries; the injected http.Client bounds the
// call duration.
type Client struct {
	base string
	http *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

type paymentRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"` // Format: "MM/YYYY"
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	Cvv        string `json:"cvv"`
}

// ProcessPayment submits the payment for authorization. Any transport
// failure, non-success status or undecodable body comes back as an error;
// a nil error always carries a decision.
func (c *Client) ProcessPayment(ctx context.Context, payment *models.Payment) (*Authorization, error) {
	body, err := json.Marshal(paymentRequest{
		CardNumber: payment.CardNumber,
		ExpiryDate: expiry.MMYYYY(payment.ExpiryMonth, payment.ExpiryYear),
		Currency:   payment.Currency,
		Amount:     payment.Amount,
		Cvv:        payment.Cvv,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding bank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building bank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting authorization: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading bank response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	authorization := Authorization{}
	if err := json.Unmarshal(raw, &authorization); err != nil {
		return nil, fmt.Errorf("decoding bank response: %w", err)
	}

	return &authorization, nil
}
