package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/anton-fomenko/payment-gateway/internal/expiry"
)

var allowedCurrencies = []string{"USD", "EUR", "GBP"}

// PostPaymentRequest is the inbound shape of a payment submission.
type PostPaymentRequest struct {
	CardNumber  string `json:"cardNumber"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	Cvv         string `json:"cvv"`
}

// Validate checks the request against the gateway's acceptance rules and
// returns one message per violated rule. Expiry is evaluated against now so
// callers can control the clock in tests.
func (r PostPaymentRequest) Validate(now time.Time) []string {
	var errs []string

	if !isDigits(r.CardNumber) || len(r.CardNumber) < 14 || len(r.CardNumber) > 19 {
		errs = append(errs, "Card number must be between 14 and 19 digits.")
	}

	if r.ExpiryMonth < 1 || r.ExpiryMonth > 12 {
		errs = append(errs, "Expiry month must be between 1 and 12.")
	} else if r.ExpiryYear < 1 || !expiry.InFuture(r.ExpiryMonth, r.ExpiryYear, now) {
		errs = append(errs, "The card expiry date must be in the future.")
	}

	if !isAllowedCurrency(r.Currency) {
		errs = append(errs, fmt.Sprintf("Currency must be one of the following: %s.", strings.Join(allowedCurrencies, ", ")))
	}

	if r.Amount <= 0 {
		errs = append(errs, "Amount must be a positive integer.")
	}

	if !isDigits(r.Cvv) || len(r.Cvv) < 3 || len(r.Cvv) > 4 {
		errs = append(errs, "CVV must be 3 or 4 digits.")
	}

	return errs
}

// Payment converts the request into a payment record ready for processing.
// The ID and status are assigned later by the processor.
func (r PostPaymentRequest) Payment() *Payment {
	return &Payment{
		CardNumber:  r.CardNumber,
		ExpiryMonth: r.ExpiryMonth,
		ExpiryYear:  r.ExpiryYear,
		Currency:    r.Currency,
		Amount:      r.Amount,
		Cvv:         r.Cvv,
	}
}

func isAllowedCurrency(currency string) bool {
	for _, c := range allowedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
