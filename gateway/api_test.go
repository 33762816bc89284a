package gateway_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/anton-fomenko/payment-gateway/gateway"
	"github.com/anton-fomenko/payment-gateway/gateway/acquirer"
	"github.com/anton-fomenko/payment-gateway/gateway/idempotency"
	"github.com/anton-fomenko/payment-gateway/gateway/models"
)

func newRouter(bank gateway.AcquiringBank, cache *idempotency.Cache[models.PaymentResponse]) *chi.Mux {
	router := chi.NewRouter()

	service := gateway.NewService(gateway.NewRepository(), bank, testLogger())
	api := gateway.NewAPI(service, cache)
	api.AppendRoutes(router)

	return router
}

func validRequest() models.PostPaymentRequest {
	return models.PostPaymentRequest{
		CardNumber:  "4111111111110000",
		ExpiryMonth: 12,
		ExpiryYear:  time.Now().Year() + 1,
		Currency:    "USD",
		Amount:      100,
		Cvv:         "123",
	}
}

func postPayment(t *testing.T, router *chi.Mux, request models.PostPaymentRequest, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()

	jsonReq, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/", bytes.NewBuffer(jsonReq))
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestAPI_PostPayment_Authorized(t *testing.T) {
	bank := &stubBank{authorization: &acquirer.Authorization{Authorized: true, AuthorizationCode: "AUTH123"}}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	w := postPayment(t, router, validRequest(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	response := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.NotEmpty(t, response.ID)
	require.Equal(t, string(models.PaymentStatusAuthorized), response.Status)
	require.Equal(t, "0000", response.CardNumberLastFour)
	require.Equal(t, "USD", response.Currency)
	require.EqualValues(t, 100, response.Amount)

	// Sensitive fields never appear in the response body.
	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	require.NotContains(t, fields, "cardNumber")
	require.NotContains(t, fields, "cvv")
	require.NotContains(t, w.Body.String(), "4111111111110000")
}

func TestAPI_PostThenGetPayment(t *testing.T) {
	bank := &stubBank{authorization: &acquirer.Authorization{Authorized: true, AuthorizationCode: "AUTH123"}}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	w := postPayment(t, router, validRequest(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	created := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/payments/"+created.ID, nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)

	require.Equal(t, http.StatusOK, w2.Code)

	fetched := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &fetched))
	require.Equal(t, created, fetched)
}

func TestAPI_GetPayment_UnknownID(t *testing.T) {
	router := newRouter(&stubBank{}, idempotency.New[models.PaymentResponse](24*time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/payments/11111111-2222-3333-4444-555555555555", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_PostPayment_Rejected(t *testing.T) {
	bank := &stubBank{authorization: &acquirer.Authorization{Authorized: true}}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	request := validRequest()
	request.Currency = "JPY"
	request.Cvv = "12"

	w := postPayment(t, router, request, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	problem := models.ValidationProblem{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	require.Equal(t, "Payment Rejected", problem.Title)
	require.Len(t, problem.Errors, 2)

	require.EqualValues(t, 0, bank.calls, "rejected requests must not reach the bank")
}

func TestAPI_PostPayment_BankErrorStillCreated(t *testing.T) {
	bank := &stubBank{err: &acquirer.StatusError{Code: 503, Body: "bank unavailable"}}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	w := postPayment(t, router, validRequest(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	response := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, string(models.PaymentStatusBankError), response.Status)
	require.NotEmpty(t, response.ID)
}

func TestAPI_Idempotency_ReplaysFirstResponse(t *testing.T) {
	bank := &stubBank{authorization: &acquirer.Authorization{Authorized: true, AuthorizationCode: "AUTH123"}}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	first := postPayment(t, router, validRequest(), "abc")
	require.Equal(t, http.StatusCreated, first.Code)

	// A different body under the same key still replays the original response.
	other := validRequest()
	other.Amount = 999

	second := postPayment(t, router, other, "abc")
	require.Equal(t, http.StatusCreated, second.Code)

	require.JSONEq(t, first.Body.String(), second.Body.String())
	require.EqualValues(t, 1, bank.calls, "the bank must be called at most once per key")
}

func TestAPI_Idempotency_NoKeyNeverCaches(t *testing.T) {
	bank := &stubBank{authorization: &acquirer.Authorization{Authorized: true, AuthorizationCode: "AUTH123"}}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	first := postPayment(t, router, validRequest(), "")
	second := postPayment(t, router, validRequest(), "")

	firstResponse := models.PaymentResponse{}
	secondResponse := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResponse))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResponse))

	require.NotEqual(t, firstResponse.ID, secondResponse.ID)
	require.EqualValues(t, 2, bank.calls)
}

func TestAPI_Idempotency_ExpiredKeyTriggersNewBankCall(t *testing.T) {
	bank := &stubBank{authorization: &acquirer.Authorization{Authorized: true, AuthorizationCode: "AUTH123"}}

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	mu := sync.Mutex{}
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	router := newRouter(bank, idempotency.NewWithClock[models.PaymentResponse](24*time.Hour, clock))

	first := postPayment(t, router, validRequest(), "abc")
	require.Equal(t, http.StatusCreated, first.Code)

	mu.Lock()
	now = now.Add(25 * time.Hour)
	mu.Unlock()

	second := postPayment(t, router, validRequest(), "abc")
	require.Equal(t, http.StatusCreated, second.Code)
	require.EqualValues(t, 2, bank.calls)

	firstResponse := models.PaymentResponse{}
	secondResponse := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResponse))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResponse))
	require.NotEqual(t, firstResponse.ID, secondResponse.ID)
}

// Two concurrent requests racing on an unseen key may both reach the bank;
// the cache keeps whichever response was written last, and later requests
// replay that winner. This pins the documented behavior rather than
// asserting exclusivity.
func TestAPI_Idempotency_ConcurrentUnseenKey(t *testing.T) {
	bank := &stubBank{
		respond: func(call int64) (*acquirer.Authorization, error) {
			return &acquirer.Authorization{Authorized: true, AuthorizationCode: fmt.Sprintf("AUTH-%d", call)}, nil
		},
	}
	router := newRouter(bank, idempotency.New[models.PaymentResponse](24*time.Hour))

	recorders := make([]*httptest.ResponseRecorder, 2)
	wg := sync.WaitGroup{}
	for i := range recorders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recorders[i] = postPayment(t, router, validRequest(), "abc")
		}(i)
	}
	wg.Wait()

	ids := make([]string, 2)
	for i, w := range recorders {
		require.Equal(t, http.StatusCreated, w.Code)
		response := models.PaymentResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		ids[i] = response.ID
	}

	replay := postPayment(t, router, validRequest(), "abc")
	cached := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(replay.Body.Bytes(), &cached))
	require.Contains(t, ids, cached.ID, "cached response must be one of the racers")
}

// End-to-end: real acquirer client against a fake bank server.
func TestAPI_EndToEnd_AgainstBankServer(t *testing.T) {
	bankSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Authorized": true, "AuthorizationCode": "AUTH123"}`))
	}))
	defer bankSrv.Close()

	client := acquirer.New(bankSrv.URL, nil)
	router := newRouter(client, idempotency.New[models.PaymentResponse](24*time.Hour))

	w := postPayment(t, router, validRequest(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	response := models.PaymentResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, string(models.PaymentStatusAuthorized), response.Status)
}
