package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anton-fomenko/payment-gateway/gateway/idempotency"
	"github.com/anton-fomenko/payment-gateway/gateway/models"
)

// API is the HTTP surface of the payment gateway. It validates requests,
// consults the idempotency cache before invoking the service and caches the
// produced response under the caller's key.
type API struct {
	service *Service
	cache   *idempotency.Cache[models.PaymentResponse]
	now     func() time.Time
}

func NewAPI(service *Service, cache *idempotency.Cache[models.PaymentResponse]) *API {
	return &API{
		service: service,
		cache:   cache,
		now:     time.Now,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/", a.createPayment)
		r.Get("/{paymentID}", a.getPayment)
	})
}

func (a *API) createPayment(w http.ResponseWriter, r *http.Request) {
	request := models.PostPaymentRequest{}
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if errs := request.Validate(a.now()); len(errs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ValidationProblem{Title: "Payment Rejected", Errors: errs})
		return
	}

	key := r.Header.Get("Idempotency-Key")

	// A cached response is replayed verbatim, including the payment ID
	// generated for the first request; the bank is not called again.
	if key != "" {
		if cached, ok := a.cache.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(cached)
			return
		}
	}

	payment, err := a.service.ProcessPayment(r.Context(), request.Payment())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := models.NewPaymentResponse(payment)
	if key != "" {
		a.cache.Set(key, response)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

func (a *API) getPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	payment, err := a.service.GetPayment(paymentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.NewPaymentResponse(payment))
}
