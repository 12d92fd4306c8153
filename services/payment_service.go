package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	awspkg "github.com/Ryan-gomezzz/Hush-gentle/pkg/aws"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/payments"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentOutcome is the reconciled state of one payment attempt.
type PaymentOutcome struct {
	PaymentID    uuid.UUID            `json:"paymentId"`
	OrderID      uuid.UUID            `json:"orderId"`
	Provider     string               `json:"provider"`
	Status       models.PaymentStatus `json:"status"`
	OrderPaid    bool                 `json:"-"`
	ClientSecret *string              `json:"clientSecret"`
	RedirectURL  *string              `json:"redirectUrl"`
}

type PaymentService interface {
	// Orchestrate opens a payment attempt for an order that was just assembled.
	Orchestrate(ctx context.Context, actor Actor, order *models.Order) (*PaymentOutcome, error)
	CreateIntent(ctx context.Context, actor Actor, orderID uuid.UUID) (*PaymentOutcome, error)
	Verify(ctx context.Context, actor Actor, paymentID uuid.UUID) (*PaymentOutcome, error)
	Refund(ctx context.Context, paymentID uuid.UUID, amountINR *int64) (*models.Payment, error)
	// ReconcileFromProvider applies an asynchronous provider notification.
	ReconcileFromProvider(ctx context.Context, provider, reference string, status models.PaymentStatus, meta map[string]interface{}) error
}

type paymentService struct {
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	providers *payments.Registry
	analytics AnalyticsService
	metrics   BusinessMetrics
	logger    *zap.Logger
}

func NewPaymentService(
	orders repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	providers *payments.Registry,
	analytics AnalyticsService,
	metrics BusinessMetrics,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		orders:    orders,
		payments:  paymentRepo,
		providers: providers,
		analytics: analytics,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *paymentService) Orchestrate(ctx context.Context, actor Actor, order *models.Order) (*PaymentOutcome, error) {
	provider := s.providers.Active()

	payment := &models.Payment{
		ID:        uuid.New(),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Provider:  provider.Name(),
		Status:    models.PaymentStatusCreated,
		AmountINR: order.TotalINR,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to create payment", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, apperrors.Storage(err)
	}

	result, err := provider.CreatePaymentIntent(ctx, payments.CreateIntentInput{
		PaymentID: payment.ID,
		OrderID:   order.ID,
		UserID:    order.UserID,
		AmountINR: order.TotalINR,
		Currency:  models.CurrencyINR,
	})
	if err != nil {
		s.logger.Error("Payment provider create-intent failed",
			zap.String("provider", provider.Name()),
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return nil, apperrors.PaymentProvider(err)
	}

	return s.reconcile(ctx, actor, payment, repository.PaymentUpdate{
		Status:            result.Status,
		ProviderReference: result.ProviderReference,
		Meta:              result.Meta,
	}, result)
}

func (s *paymentService) CreateIntent(ctx context.Context, actor Actor, orderID uuid.UUID) (*PaymentOutcome, error) {
	order, err := s.orders.FindByIDAndUserID(ctx, orderID, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if order.Status != models.OrderStatusCreated {
		return nil, apperrors.Validation("Order is not awaiting payment")
	}
	return s.Orchestrate(ctx, actor, order)
}

// Verify asks the provider that handled the payment for its current state and
// reconciles it in place. Repeating it never creates rows and never repeats the paid
// transition.
func (s *paymentService) Verify(ctx context.Context, actor Actor, paymentID uuid.UUID) (*PaymentOutcome, error) {
	payment, err := s.payments.FindByIDAndUserID(ctx, paymentID, actor.UserID)
	if err != nil {
		return nil, notFoundOr(err, "Payment not found")
	}
	if payment.ProviderReference == nil || *payment.ProviderReference == "" {
		return nil, apperrors.Validation("Missing provider reference")
	}
	if payment.Status == models.PaymentStatusRefunded {
		return &PaymentOutcome{
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
			Provider:  payment.Provider,
			Status:    payment.Status,
		}, nil
	}

	provider := s.providers.Lookup(payment.Provider)
	result, err := provider.VerifyPayment(ctx, payments.VerifyInput{ProviderReference: *payment.ProviderReference})
	if err != nil {
		s.logger.Error("Payment provider verify failed",
			zap.String("provider", provider.Name()),
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return nil, apperrors.PaymentProvider(err)
	}

	return s.reconcile(ctx, actor, payment, repository.PaymentUpdate{
		Status: result.Status,
		Meta:   result.Meta,
	}, result)
}

func (s *paymentService) Refund(ctx context.Context, paymentID uuid.UUID, amountINR *int64) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, notFoundOr(err, "Payment not found")
	}
	if payment.Status != models.PaymentStatusSucceeded {
		return nil, apperrors.Validation("Only succeeded payments can be refunded")
	}
	if payment.ProviderReference == nil || *payment.ProviderReference == "" {
		return nil, apperrors.Validation("Missing provider reference")
	}
	if amountINR != nil && (*amountINR <= 0 || *amountINR > payment.AmountINR) {
		return nil, apperrors.Validation("Invalid refund amount")
	}

	provider := s.providers.Lookup(payment.Provider)
	result, err := provider.RefundPayment(ctx, payments.RefundInput{
		ProviderReference: *payment.ProviderReference,
		AmountINR:         amountINR,
	})
	if err != nil {
		s.logger.Error("Payment provider refund failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		return nil, apperrors.PaymentProvider(err)
	}
	if result.Status != models.PaymentStatusRefunded {
		return nil, apperrors.PaymentProvider(fmt.Errorf("refund ended in status %s", result.Status))
	}

	orderRefunded, err := s.payments.MarkRefunded(ctx, payment, result.Meta)
	if err != nil {
		s.logger.Error("Failed to record refund", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		return nil, apperrors.Storage(err)
	}

	recordCount(s.metrics, awspkg.MetricPaymentRefunded)
	s.logger.Info("Payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", payment.OrderID.String()),
		zap.Bool("order_refunded", orderRefunded),
	)
	return payment, nil
}

func (s *paymentService) ReconcileFromProvider(ctx context.Context, provider, reference string, status models.PaymentStatus, meta map[string]interface{}) error {
	payment, err := s.payments.FindByProviderReference(ctx, provider, reference)
	if err != nil {
		return notFoundOr(err, "Payment not found")
	}
	if payment.Status.Terminal() {
		s.logger.Info("Skipping notification for settled payment",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(payment.Status)),
		)
		return nil
	}

	actor := Actor{UserID: payment.UserID, SessionID: ServerSessionID}
	_, err = s.reconcile(ctx, actor, payment, repository.PaymentUpdate{Status: status, Meta: meta},
		payments.Result{Provider: payment.Provider, Status: status})
	return err
}

// reconcile persists a provider result and emits the matching analytics event.
// payment_success is only emitted by the call that actually moved the order to paid,
// payment_failure only when the payment was not already failed.
func (s *paymentService) reconcile(ctx context.Context, actor Actor, payment *models.Payment, update repository.PaymentUpdate, result payments.Result) (*PaymentOutcome, error) {
	previous := payment.Status

	orderPaid, err := s.payments.Reconcile(ctx, payment, update)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Order already has a successful payment")
		}
		s.logger.Error("Failed to reconcile payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		return nil, apperrors.Storage(err)
	}

	meta := map[string]interface{}{
		"orderId":   payment.OrderID.String(),
		"paymentId": payment.ID.String(),
		"provider":  payment.Provider,
	}
	userID := payment.UserID

	switch update.Status {
	case models.PaymentStatusSucceeded:
		if orderPaid {
			recordCount(s.metrics, awspkg.MetricPaymentSucceeded)
			s.analytics.Track(ctx, Event{
				Name:      models.EventPaymentSuccess,
				Path:      "/order-confirmation/" + payment.OrderID.String(),
				Meta:      meta,
				UserID:    &userID,
				SessionID: actor.SessionID,
				Referrer:  actor.Referrer,
			})
		}
	case models.PaymentStatusFailed:
		if previous != models.PaymentStatusFailed {
			recordCount(s.metrics, awspkg.MetricPaymentFailed)
			s.analytics.Track(ctx, Event{
				Name:      models.EventPaymentFailure,
				Path:      "/checkout",
				Meta:      meta,
				UserID:    &userID,
				SessionID: actor.SessionID,
				Referrer:  actor.Referrer,
			})
		}
	}

	s.logger.Info("Payment reconciled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", payment.OrderID.String()),
		zap.String("status", string(update.Status)),
		zap.Bool("order_paid", orderPaid),
	)

	return &PaymentOutcome{
		PaymentID:    payment.ID,
		OrderID:      payment.OrderID,
		Provider:     payment.Provider,
		Status:       payment.Status,
		OrderPaid:    orderPaid,
		ClientSecret: result.ClientSecret,
		RedirectURL:  result.RedirectURL,
	}, nil
}
