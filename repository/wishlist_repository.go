package repository

import (
	"context"
	"errors"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Toggle(ctx context.Context, wishlistID, productID uuid.UUID) (added bool, err error)
}

type GormWishlistRepository struct {
	db *gorm.DB
}

func NewGormWishlistRepository(db *gorm.DB) WishlistRepository {
	return &GormWishlistRepository{db: db}
}

func (r *GormWishlistRepository) find(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *GormWishlistRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	wishlist, err := r.find(ctx, userID)
	if err == nil {
		return wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wishlist = &models.Wishlist{UserID: userID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(wishlist).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.find(ctx, userID)
		}
		return nil, err
	}
	return wishlist, nil
}

func (r *GormWishlistRepository) ListItems(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		InnerJoins("Product").
		Joins("JOIN wishlists ON wishlists.id = wishlist_items.wishlist_id").
		Where("wishlists.user_id = ?", userID).
		Order("wishlist_items.created_at DESC").
		Find(&items).Error
	return items, err
}

// Toggle removes the product when present, adds it otherwise.
func (r *GormWishlistRepository) Toggle(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).Delete(&models.WishlistItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Omit(clause.Associations).Create(&models.WishlistItem{WishlistID: wishlistID, ProductID: productID}).Error
	})
	return added, err
}
