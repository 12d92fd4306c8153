package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/payments"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	carts       *MockCartRepository
	orders      *MockOrderRepository
	paymentRepo *MockPaymentRepository
	analytics   *recordingAnalytics
	provider    *scriptedProvider
	locker      *fakeLocker
	svc         CheckoutService

	userID  uuid.UUID
	cartID  uuid.UUID
	orderID uuid.UUID
	payID   uuid.UUID
	placed  *models.Order
	payment *models.Payment
}

func newCheckoutFixture(status models.PaymentStatus, providerErr error) *checkoutFixture {
	f := &checkoutFixture{
		carts:       new(MockCartRepository),
		orders:      new(MockOrderRepository),
		paymentRepo: new(MockPaymentRepository),
		analytics:   &recordingAnalytics{},
		provider:    &scriptedProvider{name: "stub", status: status, err: providerErr},
		locker:      &fakeLocker{},
		userID:      uuid.New(),
		cartID:      uuid.New(),
		orderID:     uuid.New(),
		payID:       uuid.New(),
	}
	logger := zap.NewNop()
	paymentSvc := NewPaymentService(f.orders, f.paymentRepo, payments.NewRegistry(f.provider), f.analytics, nil, logger)
	f.svc = NewCheckoutService(f.carts, f.orders, paymentSvc, f.analytics, f.locker, nil, logger)
	return f
}

func (f *checkoutFixture) actor() Actor {
	return Actor{UserID: f.userID, SessionID: "sid-1"}
}

func cartLine(cartID uuid.UUID, price int64, qty int) models.CartItem {
	productID := uuid.New()
	return models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Product:   models.Product{ID: productID, Name: "Gentle Balm", Slug: "gentle-balm", PriceINR: price},
		Quantity:  qty,
	}
}

// withCart stubs an active cart holding items.
func (f *checkoutFixture) withCart(items []models.CartItem) {
	cart := &models.Cart{ID: f.cartID, UserID: f.userID, Status: models.CartStatusActive}
	f.carts.On("FindActiveByUserID", mock.Anything, f.userID).Return(cart, nil)
	f.carts.On("ListItems", mock.Anything, f.cartID).Return(items, nil)
}

func (f *checkoutFixture) expectAssembly() {
	f.orders.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*models.Order)
			order.ID = f.orderID
			for i := range order.Items {
				order.Items[i].OrderID = f.orderID
			}
			snapshot := *order
			snapshot.Items = append([]models.OrderItem(nil), order.Items...)
			f.placed = &snapshot
		}).
		Return(nil).Once()
}

func (f *checkoutFixture) expectPaymentRow() {
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*models.Payment)
			p.ID = f.payID
			copied := *p
			f.payment = &copied
		}).
		Return(nil).Once()
}

func (f *checkoutFixture) expectReconcile(status models.PaymentStatus, orderPaid bool) {
	f.paymentRepo.On("Reconcile", mock.Anything, mock.AnythingOfType("*models.Payment"),
		mock.MatchedBy(func(u repository.PaymentUpdate) bool { return u.Status == status })).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Payment).Status = status
		}).
		Return(orderPaid, nil).Once()
}

func shipping() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: "Asha Rao", Phone: "9876543210", AddressLine1: "12 MG Road",
		City: "Bengaluru", State: "Karnataka", Pincode: "560001",
	}
}

func TestPlaceOrder_SucceededPaymentPaysOrderAndConvertsCart(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.withCart([]models.CartItem{cartLine(f.cartID, 499, 2), cartLine(f.cartID, 1200, 1)})
	f.expectAssembly()
	f.expectPaymentRow()
	f.expectReconcile(models.PaymentStatusSucceeded, true)
	f.carts.On("MarkConverted", mock.Anything, f.cartID).Return(true, nil).Once()

	res, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	require.NoError(t, err)

	assert.Equal(t, f.orderID, res.OrderID)
	assert.Equal(t, int64(2198), res.TotalINR)
	assert.Equal(t, models.PaymentStatusSucceeded, res.Payment.Status)
	assert.Equal(t, f.payID, res.Payment.PaymentID)

	require.NotNil(t, f.placed)
	assert.Equal(t, models.OrderStatusCreated, f.placed.Status)
	assert.Equal(t, models.CurrencyINR, f.placed.Currency)
	assert.Equal(t, int64(2198), f.placed.SubtotalINR)
	assert.Equal(t, int64(0), f.placed.ShippingINR)
	assert.Equal(t, int64(2198), f.placed.TotalINR)
	assert.Equal(t, "560001", f.placed.ShippingAddress.Data().Pincode)
	require.Len(t, f.placed.Items, 2)

	require.NotNil(t, f.payment)
	assert.Equal(t, "stub", f.payment.Provider)
	assert.Equal(t, models.PaymentStatusCreated, f.payment.Status)
	assert.Equal(t, int64(2198), f.payment.AmountINR)

	success := f.analytics.named(models.EventPaymentSuccess)
	require.Len(t, success, 1)
	assert.Equal(t, "/order-confirmation/"+f.orderID.String(), success[0].Path)
	assert.Equal(t, f.orderID.String(), success[0].Meta["orderId"])
	assert.Equal(t, f.payID.String(), success[0].Meta["paymentId"])
	assert.Equal(t, "stub", success[0].Meta["provider"])
	assert.Empty(t, f.analytics.named(models.EventPaymentFailure))

	completed := f.analytics.named(models.EventCheckoutCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, int64(2198), completed[0].Meta["total_inr"])

	assert.Equal(t, []uuid.UUID{f.cartID}, f.locker.acquired)
	assert.Equal(t, 1, f.locker.released)
	f.carts.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.paymentRepo.AssertExpectations(t)
}

func TestPlaceOrder_NoActiveCart(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, f.userID).Return(nil, gorm.ErrRecordNotFound).Once()

	res, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCart))
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyCart))

	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "MarkConverted", mock.Anything, mock.Anything)
	assert.Empty(t, f.analytics.named(models.EventCheckoutCompleted))
	assert.Empty(t, f.locker.acquired)
}

func TestPlaceOrder_CartWithoutLines(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.withCart([]models.CartItem{})

	_, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyCart))
	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
}

func TestPlaceOrder_FailedPaymentStillConvertsCart(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusFailed, nil)
	f.withCart([]models.CartItem{cartLine(f.cartID, 500, 1)})
	f.expectAssembly()
	f.expectPaymentRow()
	f.expectReconcile(models.PaymentStatusFailed, false)
	f.carts.On("MarkConverted", mock.Anything, f.cartID).Return(true, nil).Once()

	res, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, res.Payment.Status)
	assert.Equal(t, int64(500), f.placed.TotalINR)

	failure := f.analytics.named(models.EventPaymentFailure)
	require.Len(t, failure, 1)
	assert.Equal(t, "/checkout", failure[0].Path)
	assert.Equal(t, f.orderID.String(), failure[0].Meta["orderId"])
	assert.Empty(t, f.analytics.named(models.EventPaymentSuccess))

	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.carts.AssertExpectations(t)
}

func TestPlaceOrder_FreezesPricesAtAssembly(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	items := []models.CartItem{cartLine(f.cartID, 499, 2), cartLine(f.cartID, 1200, 1)}
	f.withCart(items)
	f.expectAssembly()
	f.expectPaymentRow()
	f.expectReconcile(models.PaymentStatusSucceeded, true)
	f.carts.On("MarkConverted", mock.Anything, f.cartID).Return(true, nil).Once()

	_, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	require.NoError(t, err)

	// a later price change on the catalog side
	items[0].Product.PriceINR = 999
	items[1].Product.PriceINR = 1

	assert.Equal(t, int64(499), f.placed.Items[0].PriceINR)
	assert.Equal(t, 2, f.placed.Items[0].Quantity)
	assert.Equal(t, int64(1200), f.placed.Items[1].PriceINR)
	assert.Equal(t, int64(2198), f.placed.TotalINR)
}

// requires_action is persisted but neither moves the order nor emits a payment event.
func TestPlaceOrder_RequiresActionLeavesOrderCreated(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusRequiresAction, nil)
	f.withCart([]models.CartItem{cartLine(f.cartID, 750, 1)})
	f.expectAssembly()
	f.expectPaymentRow()
	f.expectReconcile(models.PaymentStatusRequiresAction, false)
	f.carts.On("MarkConverted", mock.Anything, f.cartID).Return(true, nil).Once()

	res, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRequiresAction, res.Payment.Status)

	assert.Empty(t, f.analytics.named(models.EventPaymentSuccess))
	assert.Empty(t, f.analytics.named(models.EventPaymentFailure))
	assert.Len(t, f.analytics.named(models.EventCheckoutCompleted), 1)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_ProviderErrorFinalizesCartThenFails(t *testing.T) {
	f := newCheckoutFixture("", errors.New("connection reset"))
	f.withCart([]models.CartItem{cartLine(f.cartID, 300, 1)})
	f.expectAssembly()
	f.expectPaymentRow()
	f.carts.On("MarkConverted", mock.Anything, f.cartID).Return(true, nil).Once()

	res, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	assert.Nil(t, res)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPaymentProvider))

	f.paymentRepo.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
	f.carts.AssertExpectations(t)
	assert.Empty(t, f.analytics.named(models.EventCheckoutCompleted))
	assert.Equal(t, 1, f.locker.released)
}

func TestPlaceOrder_AssemblyFailure(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.withCart([]models.CartItem{cartLine(f.cartID, 300, 1)})
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	assert.True(t, apperrors.IsKind(err, apperrors.KindStorage))

	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "MarkConverted", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.provider.calls)
}

func TestPlaceOrder_SecondSubmissionWhileLocked(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.locker.err = repository.ErrCheckoutLocked
	f.withCart([]models.CartItem{cartLine(f.cartID, 300, 1)})

	_, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.ErrorIs(t, err, repository.ErrCheckoutLocked)
	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
}

func TestPlaceOrder_CartConvertedWhileWaitingForLock(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	cart := &models.Cart{ID: f.cartID, UserID: f.userID, Status: models.CartStatusActive}
	f.carts.On("FindActiveByUserID", mock.Anything, f.userID).Return(cart, nil).Once()
	f.carts.On("FindActiveByUserID", mock.Anything, f.userID).Return(nil, gorm.ErrRecordNotFound).Once()
	f.carts.On("ListItems", mock.Anything, f.cartID).Return([]models.CartItem{cartLine(f.cartID, 300, 1)}, nil).Once()

	_, err := f.svc.PlaceOrder(context.Background(), f.actor(), shipping())
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyCart))
	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything)
	assert.Equal(t, 1, f.locker.released)
}

func TestSummary_EmitsCheckoutStarted(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.withCart([]models.CartItem{cartLine(f.cartID, 499, 2), cartLine(f.cartID, 1200, 1)})

	summary, err := f.svc.Summary(context.Background(), f.actor())
	require.NoError(t, err)
	assert.False(t, summary.Empty)
	assert.Equal(t, int64(2198), summary.SubtotalINR)
	assert.Equal(t, int64(2198), summary.TotalINR)
	assert.Len(t, summary.Items, 2)

	started := f.analytics.named(models.EventCheckoutStarted)
	require.Len(t, started, 1)
	assert.Equal(t, "/checkout", started[0].Path)
	assert.Equal(t, f.userID, *started[0].UserID)
}

func TestSummary_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(models.PaymentStatusSucceeded, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, f.userID).Return(nil, gorm.ErrRecordNotFound)

	summary, err := f.svc.Summary(context.Background(), f.actor())
	require.NoError(t, err)
	assert.True(t, summary.Empty)
	assert.Nil(t, summary.CartID)
	assert.Len(t, f.analytics.named(models.EventCheckoutStarted), 1)
}
