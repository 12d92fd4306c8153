package services

import (
	"context"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderList struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type OrderService interface {
	GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderList, error)
	// GetOrderByID answers 404 both for missing orders and for other shoppers' orders.
	GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type orderService struct {
	repo   repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(repo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{repo: repo, logger: logger}
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderList, error) {
	orders, total, err := s.repo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.Storage(err)
	}
	return &OrderList{Orders: orders, Meta: newMetaData(page, limit, total)}, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	return order, nil
}
