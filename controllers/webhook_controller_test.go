package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test"

func signedWebhook(eventType, intentID, intentStatus string) *http.Request {
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"payment_intent","status":%q}}}`,
		stripe.APIVersion, eventType, intentID, intentStatus,
	))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testWebhookSecret})

	req, _ := http.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

func TestStripeWebhook(t *testing.T) {
	t.Run("Bad signature - 400", func(t *testing.T) {
		mockService := new(MockPaymentService)
		router := newTestRouter(uuid.Nil)
		router.POST("/webhooks/stripe", NewWebhookController(mockService, testWebhookSecret, zap.NewNop()).StripeWebhook)

		req := signedWebhook("payment_intent.succeeded", "pi_1", "succeeded")
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "ReconcileFromProvider", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Succeeded intent reconciles payment", func(t *testing.T) {
		mockService := new(MockPaymentService)
		router := newTestRouter(uuid.Nil)
		router.POST("/webhooks/stripe", NewWebhookController(mockService, testWebhookSecret, zap.NewNop()).StripeWebhook)
		mockService.On("ReconcileFromProvider", mock.Anything, payments.ProviderStripe, "pi_1", models.PaymentStatusSucceeded, mock.Anything).
			Return(nil).Once()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, signedWebhook("payment_intent.succeeded", "pi_1", "succeeded"))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"received"}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Unknown intent is acknowledged", func(t *testing.T) {
		mockService := new(MockPaymentService)
		router := newTestRouter(uuid.Nil)
		router.POST("/webhooks/stripe", NewWebhookController(mockService, testWebhookSecret, zap.NewNop()).StripeWebhook)
		mockService.On("ReconcileFromProvider", mock.Anything, payments.ProviderStripe, "pi_2", models.PaymentStatusFailed, mock.Anything).
			Return(apperrors.NotFound("Payment not found")).Once()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, signedWebhook("payment_intent.payment_failed", "pi_2", "requires_payment_method"))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Other event types are ignored", func(t *testing.T) {
		mockService := new(MockPaymentService)
		router := newTestRouter(uuid.Nil)
		router.POST("/webhooks/stripe", NewWebhookController(mockService, testWebhookSecret, zap.NewNop()).StripeWebhook)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, signedWebhook("charge.refunded", "ch_1", "succeeded"))

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertNotCalled(t, "ReconcileFromProvider", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
