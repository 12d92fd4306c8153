package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/payments"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

type WebhookController struct {
	payments      services.PaymentService
	webhookSecret string
	logger        *zap.Logger
}

func NewWebhookController(payments services.PaymentService, webhookSecret string, logger *zap.Logger) *WebhookController {
	return &WebhookController{payments: payments, webhookSecret: webhookSecret, logger: logger}
}

// StripeWebhook verifies the Stripe signature and reconciles payment intent outcomes.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}
	if wc.webhookSecret == "" {
		wc.logger.Warn("Stripe webhook received but STRIPE_WEBHOOK_SECRET is not set")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), wc.webhookSecret)
	if err != nil {
		wc.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	wc.logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	var status models.PaymentStatus
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.PaymentStatusSucceeded
	case "payment_intent.payment_failed":
		status = models.PaymentStatusFailed
	default:
		wc.logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		wc.logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	meta := map[string]interface{}{
		"event_id":        event.ID,
		"event_type":      string(event.Type),
		"provider_status": string(payments.MapStripeStatus(pi.Status)),
	}
	err = wc.payments.ReconcileFromProvider(c.Request.Context(), payments.ProviderStripe, pi.ID, status, meta)
	switch {
	case err == nil:
	case apperrors.IsKind(err, apperrors.KindNotFound):
		wc.logger.Warn("No payment for PaymentIntent", zap.String("payment_intent_id", pi.ID))
	default:
		// non-2xx makes Stripe retry
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
