package database

import (
	"fmt"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"gorm.io/gorm"
)

// partial indexes gorm tags cannot express
var constraintStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_one_active_per_user ON carts (user_id) WHERE status = 'active'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_succeeded_per_order ON payments (order_id) WHERE status = 'succeeded'`,
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Testimonial{},
		&models.AmazonReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.AnalyticsEvent{},
		&models.ChatSession{},
		&models.ChatMessage{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
