package repository

import (
	"context"
	"errors"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines data access for carts and their lines.
type CartRepository interface {
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetOrCreateActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (bool, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	MarkConverted(ctx context.Context, cartID uuid.UUID) (bool, error)
}

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// FindActiveByUserID returns gorm.ErrRecordNotFound when the user has no active cart.
func (r *GormCartRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateActive lazily creates the active cart. A concurrent create loses on the
// one-active-cart index and re-reads the winner.
func (r *GormCartRepository) GetOrCreateActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.FindActiveByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &models.Cart{UserID: userID, Status: models.CartStatusActive}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.FindActiveByUserID(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

// ListItems joins every line to exactly one product, in insertion order.
func (r *GormCartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		InnerJoins("Product").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormCartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(&item).Error
}

func (r *GormCartRepository) activeCartIDs(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.Cart{}).
		Select("id").
		Where("user_id = ? AND status = ?", userID, models.CartStatusActive)
}

// UpdateItemQuantity only touches lines in the user's active cart; false means no such line.
func (r *GormCartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id IN (?)", itemID, r.activeCartIDs(userID)).
		Update("quantity", quantity)
	return res.RowsAffected > 0, res.Error
}

func (r *GormCartRepository) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", itemID, r.activeCartIDs(userID)).
		Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

// MarkConverted flips an active cart to converted; false if it was not active.
func (r *GormCartRepository) MarkConverted(ctx context.Context, cartID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND status = ?", cartID, models.CartStatusActive).
		Update("status", models.CartStatusConverted)
	return res.RowsAffected > 0, res.Error
}
