package repository

import (
	"context"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindAll(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
	SumTotalByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateWithItems writes the order and all of its lines in one transaction.
func (r *GormOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndUserID retrieves a specific order for a user, with its lines
func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID), page, limit)
}

// FindAll lists every order, optionally filtered by status
func (r *GormOrderRepository) FindAll(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.paginate(ctx, query, page, limit)
}

func (r *GormOrderRepository) paginate(ctx context.Context, query *gorm.DB, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus is a compare-and-set: it only applies while the order is still in from.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *GormOrderRepository) SumTotalByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_inr), 0)").
		Where("status IN ?", statuses).
		Scan(&total).Error
	return total, err
}
