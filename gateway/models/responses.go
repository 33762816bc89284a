package models

// PaymentResponse is the outbound projection of a payment record. The full
// card number and CVV never leave the gateway.
type PaymentResponse struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CardNumberLastFour string `json:"cardNumberLastFour"`
	ExpiryMonth        int    `json:"expiryMonth"`
	ExpiryYear         int    `json:"expiryYear"`
	Currency           string `json:"currency"`
	Amount             int64  `json:"amount"`
}

// NewPaymentResponse projects a payment record into its response shape.
func NewPaymentResponse(payment *Payment) PaymentResponse {
	lastFour := payment.CardNumber
	if len(lastFour) > 4 {
		lastFour = lastFour[len(lastFour)-4:]
	}

	return PaymentResponse{
		ID:                 payment.ID,
		Status:             string(payment.Status),
		CardNumberLastFour: lastFour,
		ExpiryMonth:        payment.ExpiryMonth,
		ExpiryYear:         payment.ExpiryYear,
		Currency:           payment.Currency,
		Amount:             payment.Amount,
	}
}

// ValidationProblem is the body returned for a rejected payment request.
type ValidationProblem struct {
	Title  string   `json:"title"`
	Errors []string `json:"errors"`
}
