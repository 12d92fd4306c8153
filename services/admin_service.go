package services

import (
	"context"
	"math"
	"time"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
	dayLayout            = "2006-01-02"
)

type Dashboard struct {
	TotalSalesINR     int64   `json:"total_sales_inr"`
	PaymentFailures   int64   `json:"payment_failures"`
	TotalProducts     int64   `json:"total_products"`
	ActiveProducts    int64   `json:"active_products"`
	PageViews         int64   `json:"page_views"`
	CheckoutCompleted int64   `json:"checkout_completed"`
	ConversionRate    float64 `json:"conversion_rate"`
}

// DailyBucket counts funnel events for one UTC day.
type DailyBucket struct {
	Day               string `json:"day"`
	PageViews         int64  `json:"page_views"`
	AddToCart         int64  `json:"add_to_cart"`
	CheckoutStarted   int64  `json:"checkout_started"`
	CheckoutCompleted int64  `json:"checkout_completed"`
	PaymentSuccess    int64  `json:"payment_success"`
	PaymentFailure    int64  `json:"payment_failure"`
}

func (b *DailyBucket) add(name models.EventName, n int64) {
	switch name {
	case models.EventPageView:
		b.PageViews += n
	case models.EventAddToCart:
		b.AddToCart += n
	case models.EventCheckoutStarted:
		b.CheckoutStarted += n
	case models.EventCheckoutCompleted:
		b.CheckoutCompleted += n
	case models.EventPaymentSuccess:
		b.PaymentSuccess += n
	case models.EventPaymentFailure:
		b.PaymentFailure += n
	}
}

type AnalyticsReport struct {
	Days           []DailyBucket `json:"days"`
	Totals         DailyBucket   `json:"totals"`
	ConversionRate float64       `json:"conversion_rate"`
}

type ChatMessageList struct {
	Messages []models.ChatMessage `json:"messages"`
	Meta     MetaData             `json:"meta"`
}

var funnelEvents = []models.EventName{
	models.EventPageView,
	models.EventAddToCart,
	models.EventCheckoutStarted,
	models.EventCheckoutCompleted,
	models.EventPaymentSuccess,
	models.EventPaymentFailure,
}

type AdminService interface {
	ListOrders(ctx context.Context, status string, page, limit int) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
	DailyAnalytics(ctx context.Context, days int) (*AnalyticsReport, error)
	ListChatMessages(ctx context.Context, page, limit int) (*ChatMessageList, error)
}

type adminService struct {
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	catalog   repository.CatalogRepository
	analytics repository.AnalyticsRepository
	chat      repository.ChatRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewAdminService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	catalog repository.CatalogRepository,
	analytics repository.AnalyticsRepository,
	chat repository.ChatRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		orders:    orders,
		payments:  payments,
		catalog:   catalog,
		analytics: analytics,
		chat:      chat,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *adminService) ListOrders(ctx context.Context, status string, page, limit int) (*OrderList, error) {
	filter := models.OrderStatus(status)
	if status != "" && !filter.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}
	orders, total, err := s.orders.FindAll(ctx, filter, page, limit)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &OrderList{Orders: orders, Meta: newMetaData(page, limit, total)}, nil
}

// UpdateOrderStatus is the operator override. It enforces forward-only progress and
// terminal cancel/refund.
func (s *adminService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperrors.Validation("Invalid status transition")
	}
	if order.Status == status {
		return order, nil
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, status)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if !updated {
		return nil, apperrors.Conflict("Order status changed, reload and retry")
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)
	order.Status = status
	return order, nil
}

func (s *adminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	sales, err := s.orders.SumTotalByStatus(ctx, []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusFulfilled})
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	failures, err := s.payments.CountByStatus(ctx, models.PaymentStatusFailed)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	total, active, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	pageViews, err := s.analytics.CountByName(ctx, models.EventPageView)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	completed, err := s.analytics.CountByName(ctx, models.EventCheckoutCompleted)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	return &Dashboard{
		TotalSalesINR:     sales,
		PaymentFailures:   failures,
		TotalProducts:     total,
		ActiveProducts:    active,
		PageViews:         pageViews,
		CheckoutCompleted: completed,
		ConversionRate:    conversionRate(completed, pageViews),
	}, nil
}

// conversionRate is completed/views as a percentage rounded to one decimal.
func conversionRate(completed, views int64) float64 {
	if views == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(views)*1000) / 10
}

// DailyAnalytics returns one bucket per UTC day for the last days days, oldest first,
// including days without events.
func (s *adminService) DailyAnalytics(ctx context.Context, days int) (*AnalyticsReport, error) {
	if days <= 0 {
		days = DefaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	rows, err := s.analytics.DailyCounts(ctx, since, funnelEvents)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	buckets := make([]DailyBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format(dayLayout)
		buckets[i] = DailyBucket{Day: day}
		index[day] = i
	}

	report := &AnalyticsReport{Days: buckets, Totals: DailyBucket{Day: "total"}}
	for _, row := range rows {
		i, ok := index[row.Day]
		if !ok {
			continue
		}
		buckets[i].add(row.EventName, row.Count)
		report.Totals.add(row.EventName, row.Count)
	}
	report.ConversionRate = conversionRate(report.Totals.CheckoutCompleted, report.Totals.PageViews)
	return report, nil
}

func (s *adminService) ListChatMessages(ctx context.Context, page, limit int) (*ChatMessageList, error) {
	messages, total, err := s.chat.ListMessages(ctx, page, limit)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &ChatMessageList{Messages: messages, Meta: newMetaData(page, limit, total)}, nil
}
