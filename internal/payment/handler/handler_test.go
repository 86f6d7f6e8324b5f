package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"agentreg/internal/payment/handler/mocks"
	"agentreg/internal/payment/models"
	"agentreg/internal/payment/service"
	id "agentreg/pkg/domain"
	dErrors "agentreg/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

const appID = id.ApplicationID("IND-APP-2026-0001")

func newTestHandler(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	svc := mocks.NewMockService(gomock.NewController(t))
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.RegisterApplicant(r)
	h.RegisterGateway(r)
	return r, svc
}

func testPayment(status models.Status) *models.Payment {
	at := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	return &models.Payment{
		Reference:     "IND-APP-2026-0001-1a2b3c4d",
		ApplicationID: appID,
		Amount:        decimal.NewFromInt(50),
		Currency:      "USD",
		Status:        status,
		PollURL:       "https://pay.example/poll/secret",
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestHandleInitiate(t *testing.T) {
	router, svc := newTestHandler(t)
	svc.EXPECT().Initiate(gomock.Any(), appID).Return(&service.Checkout{
		Payment:     testPayment(models.StatusSent),
		RedirectURL: "https://pay.example/checkout/1",
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/IND-APP-2026-0001/payments", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://pay.example/checkout/1", resp.RedirectURL)
	assert.Equal(t, "50.00", resp.Payment.Amount)
	assert.False(t, resp.Payment.Settled)
	assert.NotContains(t, w.Body.String(), "poll")
}

func TestHandleInitiate_AlreadySettled(t *testing.T) {
	router, svc := newTestHandler(t)
	svc.EXPECT().Initiate(gomock.Any(), appID).
		Return(nil, dErrors.New(dErrors.CodeInvalidState, "the application fee is already settled"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/applications/IND-APP-2026-0001/payments", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleCallback(t *testing.T) {
	body := "reference=IND-APP-2026-0001-1a2b3c4d&amount=50.00&status=Paid&hash=ABC"

	t.Run("passes the raw body through", func(t *testing.T) {
		router, svc := newTestHandler(t)
		svc.EXPECT().HandleCallback(gomock.Any(), []byte(body)).Return(testPayment(models.StatusPaid), nil)

		req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"settled":true`)
	})

	t.Run("signature failure", func(t *testing.T) {
		router, svc := newTestHandler(t)
		svc.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "callback integrity check failed"))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		router, _ := newTestHandler(t)
		big := strings.Repeat("a", maxCallbackBytes+1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(big)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleList(t *testing.T) {
	router, svc := newTestHandler(t)
	svc.EXPECT().List(gomock.Any(), appID).Return([]*models.Payment{testPayment(models.StatusCancelled)}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/applications/IND-APP-2026-0001/payments", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "cancelled", resp.Payments[0].Status)
}
