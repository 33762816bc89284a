package gateway

import (
	"fmt"
	"sync"

	"github.com/anton-fomenko/payment-gateway/gateway/models"
)

var ErrNotFound = fmt.Errorf("not found")

// Repository is an in-memory store of processed payments, keyed by payment
// ID. Records are stored and returned by value, so readers never observe a
// partially-written payment and a record cannot be mutated through a caller's
// pointer once persisted. Durability beyond the process lifetime is out of
// scope.
type Repository struct {
	mu       sync.RWMutex
	payments map[string]models.Payment
}

func NewRepository() *Repository {
	return &Repository{
		payments: make(map[string]models.Payment),
	}
}

func (r *Repository) CreatePayment(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[payment.ID] = *payment

	return nil
}

func (r *Repository) GetPayment(paymentID string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[paymentID]
	if !ok {
		return nil, ErrNotFound
	}

	return &payment, nil
}
