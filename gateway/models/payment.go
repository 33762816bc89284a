package models

// PaymentStatus is the terminal outcome of a processing attempt.
type PaymentStatus string

const (
	// PaymentStatusAuthorized means the acquiring bank approved the charge.
	PaymentStatusAuthorized PaymentStatus = "Authorized"
	// PaymentStatusDeclined means the acquiring bank rejected the charge.
	PaymentStatusDeclined PaymentStatus = "Declined"
	// PaymentStatusBankError means the acquiring bank could not be reached or
	// returned an unusable response.
	PaymentStatusBankError PaymentStatus = "BankError"
)

// Payment is a processed payment record. CardNumber, Cvv and
// AuthorizationCode are sensitive and must never be returned in full;
// responses expose only the last four card digits.
type Payment struct {
	ID                string
	Status            PaymentStatus
	CardNumber        string
	ExpiryMonth       int
	ExpiryYear        int
	Currency          string
	Amount            int64
	Cvv               string
	AuthorizationCode string
}
