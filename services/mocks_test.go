package services

import (
	"context"
	"sync"
	"time"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/payments"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Repository mocks ---

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}
func (m *MockCartRepository) GetOrCreateActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}
func (m *MockCartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}
func (m *MockCartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	return m.Called(ctx, cartID, productID, quantity).Error(0)
}
func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Bool(0), args.Error(1)
}
func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCartRepository) MarkConverted(ctx context.Context, cartID uuid.UUID) (bool, error) {
	args := m.Called(ctx, cartID)
	return args.Bool(0), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}
func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}
func (m *MockOrderRepository) FindAll(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, status, page, limit)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}
func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepository) SumTotalByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}
func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *MockPaymentRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *MockPaymentRepository) FindByProviderReference(ctx context.Context, provider, reference string) (*models.Payment, error) {
	args := m.Called(ctx, provider, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *MockPaymentRepository) Reconcile(ctx context.Context, payment *models.Payment, update repository.PaymentUpdate) (bool, error) {
	args := m.Called(ctx, payment, update)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepository) MarkRefunded(ctx context.Context, payment *models.Payment, meta map[string]interface{}) (bool, error) {
	args := m.Called(ctx, payment, meta)
	return args.Bool(0), args.Error(1)
}
func (m *MockPaymentRepository) CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *MockCatalogRepository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCatalogRepository) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockCatalogRepository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockCatalogRepository) FindActiveProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockCatalogRepository) TopProducts(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockCatalogRepository) CountProducts(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
func (m *MockCatalogRepository) ListPublishedTestimonials(ctx context.Context, limit int) ([]models.Testimonial, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Testimonial), args.Error(1)
}
func (m *MockCatalogRepository) ListReviewsForProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.AmazonReview, error) {
	args := m.Called(ctx, productID, limit)
	return args.Get(0).([]models.AmazonReview), args.Error(1)
}

type MockAnalyticsRepository struct{ mock.Mock }

func (m *MockAnalyticsRepository) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	return m.Called(ctx, event).Error(0)
}
func (m *MockAnalyticsRepository) DailyCounts(ctx context.Context, since time.Time, names []models.EventName) ([]models.DailyEventCount, error) {
	args := m.Called(ctx, since, names)
	return args.Get(0).([]models.DailyEventCount), args.Error(1)
}
func (m *MockAnalyticsRepository) CountByName(ctx context.Context, name models.EventName) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type MockChatRepository struct{ mock.Mock }

func (m *MockChatRepository) FindOrCreateSession(ctx context.Context, sessionKey string, userID *uuid.UUID) (*models.ChatSession, error) {
	args := m.Called(ctx, sessionKey, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}
func (m *MockChatRepository) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	return m.Called(ctx, message).Error(0)
}
func (m *MockChatRepository) ListMessages(ctx context.Context, page, limit int) ([]models.ChatMessage, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]models.ChatMessage), args.Get(1).(int64), args.Error(2)
}

// --- Hand-written fakes ---

// recordingAnalytics captures tracked events instead of writing them.
type recordingAnalytics struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingAnalytics) Track(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAnalytics) named(name models.EventName) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// scriptedProvider returns a fixed status or error for every call.
type scriptedProvider struct {
	name   string
	status models.PaymentStatus
	err     error
	calls   int
	intents []payments.CreateIntentInput
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) result(ref string) (payments.Result, error) {
	p.calls++
	if p.err != nil {
		return payments.Result{}, p.err
	}
	return payments.Result{
		Provider:          p.name,
		Status:            p.status,
		ProviderReference: &ref,
		Meta:              map[string]interface{}{"scripted": true},
	}, nil
}

func (p *scriptedProvider) CreatePaymentIntent(_ context.Context, in payments.CreateIntentInput) (payments.Result, error) {
	p.intents = append(p.intents, in)
	return p.result(p.name + "_" + in.OrderID.String())
}

func (p *scriptedProvider) VerifyPayment(_ context.Context, in payments.VerifyInput) (payments.Result, error) {
	return p.result(in.ProviderReference)
}

func (p *scriptedProvider) RefundPayment(_ context.Context, in payments.RefundInput) (payments.Result, error) {
	return p.result(in.ProviderReference)
}

type fakeLocker struct {
	err      error
	acquired []uuid.UUID
	released int
}

func (l *fakeLocker) Acquire(_ context.Context, cartID uuid.UUID) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, cartID)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}
