package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/anton-fomenko/payment-gateway/gateway/acquirer"
	"github.com/anton-fomenko/payment-gateway/gateway/models"
)

// AcquiringBank submits a payment to the acquiring bank for authorization.
type AcquiringBank interface {
	ProcessPayment(ctx context.Context, payment *models.Payment) (*acquirer.Authorization, error)
}

// Service processes payments: it calls the acquiring bank once, assigns a
// fresh payment ID, maps the outcome to a terminal status and persists the
// record.
type Service struct {
	repo   *Repository
	bank   AcquiringBank
	logger *slog.Logger
}

func NewService(repo *Repository, bank AcquiringBank, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bank:   bank,
		logger: logger,
	}
}

// ProcessPayment always produces a payment record. Bank failures of any kind
// are absorbed into the BankError status; the returned error is reserved for
// the gateway's own failures.
func (s *Service) ProcessPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	authorization, bankErr := s.bank.ProcessPayment(ctx, payment)

	payment.ID = uuid.New().String()

	switch {
	case bankErr != nil:
		s.logger.Error("acquiring bank call failed", slog.String("payment_id", payment.ID), slog.Any("err", bankErr))
		payment.Status = models.PaymentStatusBankError
	case authorization == nil:
		// The client never pairs a nil decision with a nil error; reaching
		// this is a gateway defect, not a bank outcome.
		return nil, fmt.Errorf("bank client returned neither a decision nor an error")
	case authorization.Authorized:
		payment.Status = models.PaymentStatusAuthorized
		payment.AuthorizationCode = authorization.AuthorizationCode
	default:
		payment.Status = models.PaymentStatusDeclined
	}

	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("storing payment: %w", err)
	}

	return payment, nil
}

// GetPayment returns a previously processed payment by its ID.
func (s *Service) GetPayment(paymentID string) (*models.Payment, error) {
	payment, err := s.repo.GetPayment(paymentID)
	if err != nil {
		return nil, fmt.Errorf("finding payment: %w", err)
	}

	return payment, nil
}
