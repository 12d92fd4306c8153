package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	awspkg "github.com/Ryan-gomezzz/Hush-gentle/pkg/aws"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// flat shipping policy
const shippingINR int64 = 0

const lockReleaseTimeout = 2 * time.Second

type CheckoutSummary struct {
	Empty       bool       `json:"empty"`
	CartID      *uuid.UUID `json:"cartId"`
	Items       []CartLine `json:"items"`
	SubtotalINR int64      `json:"subtotal_inr"`
	ShippingINR int64      `json:"shipping_inr"`
	TotalINR    int64      `json:"total_inr"`
}

type PlaceOrderResult struct {
	OrderID  uuid.UUID       `json:"orderId"`
	TotalINR int64           `json:"total_inr"`
	Payment  *PaymentOutcome `json:"payment"`
}

type CheckoutService interface {
	Summary(ctx context.Context, actor Actor) (*CheckoutSummary, error)
	PlaceOrder(ctx context.Context, actor Actor, address models.ShippingAddress) (*PlaceOrderResult, error)
}

type checkoutService struct {
	carts     repository.CartRepository
	orders    repository.OrderRepository
	payments  PaymentService
	analytics AnalyticsService
	locker    repository.CheckoutLocker
	metrics   BusinessMetrics
	logger    *zap.Logger
}

// NewCheckoutService wires the checkout flow. locker may be nil, in which case only the
// one-active-cart index guards against double submission.
func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	payments PaymentService,
	analytics AnalyticsService,
	locker repository.CheckoutLocker,
	metrics BusinessMetrics,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		carts:     carts,
		orders:    orders,
		payments:  payments,
		analytics: analytics,
		locker:    locker,
		metrics:   metrics,
		logger:    logger,
	}
}

type cartSnapshot struct {
	cartID uuid.UUID
	items  []models.CartItem
}

// readSnapshot loads the caller's active cart with its lines priced at this instant.
func (s *checkoutService) readSnapshot(ctx context.Context, userID uuid.UUID) (*cartSnapshot, error) {
	cart, err := s.carts.FindActiveByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrEmptyCart
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	items, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}
	return &cartSnapshot{cartID: cart.ID, items: items}, nil
}

func (s *checkoutService) Summary(ctx context.Context, actor Actor) (*CheckoutSummary, error) {
	s.analytics.Track(ctx, Event{
		Name:      models.EventCheckoutStarted,
		Path:      "/checkout",
		UserID:    actor.userRef(),
		SessionID: actor.SessionID,
		Referrer:  actor.Referrer,
	})

	snap, err := s.readSnapshot(ctx, actor.UserID)
	if errors.Is(err, apperrors.ErrEmptyCart) {
		return &CheckoutSummary{Empty: true, Items: []CartLine{}, ShippingINR: shippingINR, TotalINR: shippingINR}, nil
	}
	if err != nil {
		return nil, err
	}

	lines, subtotal := toCartLines(snap.items)
	cartID := snap.cartID
	return &CheckoutSummary{
		CartID:      &cartID,
		Items:       lines,
		SubtotalINR: subtotal,
		ShippingINR: shippingINR,
		TotalINR:    subtotal + shippingINR,
	}, nil
}

// PlaceOrder converts the caller's active cart into an order and runs the first payment
// attempt. Steps run strictly in order: snapshot, assembly, payment, finalization.
func (s *checkoutService) PlaceOrder(ctx context.Context, actor Actor, address models.ShippingAddress) (*PlaceOrderResult, error) {
	snap, err := s.readSnapshot(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, snap.cartID)
		if errors.Is(err, repository.ErrCheckoutLocked) {
			return nil, apperrors.New(apperrors.KindConflict, "Checkout already in progress", err)
		}
		if err != nil {
			return nil, apperrors.Storage(err)
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				s.logger.Warn("Failed to release checkout lock", zap.String("cart_id", snap.cartID.String()), zap.Error(err))
			}
		}()

		// a submission that held the lock before us may have converted the cart already
		snap, err = s.readSnapshot(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
	}

	order, err := s.assembleOrder(ctx, actor.UserID, snap, address)
	if err != nil {
		return nil, err
	}

	outcome, payErr := s.payments.Orchestrate(ctx, actor, order)

	if err := s.finalizeCart(ctx, snap.cartID); err != nil {
		return nil, err
	}
	if payErr != nil {
		return nil, payErr
	}

	s.analytics.Track(ctx, Event{
		Name:      models.EventCheckoutCompleted,
		Path:      "/order-confirmation/" + order.ID.String(),
		Meta:      map[string]interface{}{"orderId": order.ID.String(), "total_inr": order.TotalINR},
		UserID:    actor.userRef(),
		SessionID: actor.SessionID,
		Referrer:  actor.Referrer,
	})

	return &PlaceOrderResult{OrderID: order.ID, TotalINR: order.TotalINR, Payment: outcome}, nil
}

// assembleOrder freezes the snapshot prices into an order and its lines.
func (s *checkoutService) assembleOrder(ctx context.Context, userID uuid.UUID, snap *cartSnapshot, address models.ShippingAddress) (*models.Order, error) {
	var subtotal int64
	items := make([]models.OrderItem, 0, len(snap.items))
	for _, it := range snap.items {
		subtotal += it.Product.PriceINR * int64(it.Quantity)
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			PriceINR:  it.Product.PriceINR,
		})
	}

	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusCreated,
		Currency:        models.CurrencyINR,
		SubtotalINR:     subtotal,
		ShippingINR:     shippingINR,
		TotalINR:        subtotal + shippingINR,
		ShippingAddress: datatypes.NewJSONType(address),
		Items:           items,
	}
	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		s.logger.Error("Failed to assemble order", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.Storage(err)
	}

	recordCount(s.metrics, awspkg.MetricOrdersCreated)
	s.logger.Info("Order assembled",
		zap.String("order_id", order.ID.String()),
		zap.String("cart_id", snap.cartID.String()),
		zap.Int64("total_inr", order.TotalINR),
		zap.Int("lines", len(items)),
	)
	return order, nil
}

// finalizeCart consumes the cart whatever the payment outcome.
func (s *checkoutService) finalizeCart(ctx context.Context, cartID uuid.UUID) error {
	converted, err := s.carts.MarkConverted(ctx, cartID)
	if err != nil {
		s.logger.Error("Failed to finalize cart", zap.String("cart_id", cartID.String()), zap.Error(err))
		return apperrors.Storage(err)
	}
	if !converted {
		s.logger.Warn("Cart was no longer active at finalization", zap.String("cart_id", cartID.String()))
	}
	recordCount(s.metrics, awspkg.MetricCartCheckouts)
	return nil
}
