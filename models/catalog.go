package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(120);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(120);not null;uniqueIndex" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Product struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID   *uuid.UUID        `gorm:"type:uuid;index" json:"category_id"`
	Category     *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name         string            `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string            `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	ShortBenefit *string           `gorm:"type:text" json:"short_benefit"`
	Description  *string           `gorm:"type:text" json:"description"`
	Ingredients  *string           `gorm:"type:text" json:"ingredients"`
	HowToUse     *string           `gorm:"type:text" json:"how_to_use"`
	WhyGentle    *string           `gorm:"type:text" json:"why_gentle"`
	PriceINR     int64             `gorm:"not null;check:price_inr >= 0" json:"price_inr"`
	IsActive     bool              `gorm:"not null;default:true;index" json:"is_active"`
	IsFeatured   bool              `gorm:"not null;default:false" json:"is_featured"`
	Attributes   datatypes.JSONMap `gorm:"type:jsonb" json:"attributes"`
	Images       []ProductImage    `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Path      string    `gorm:"type:text;not null" json:"path"`
	Alt       *string   `gorm:"type:text" json:"alt"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
}

type Testimonial struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DisplayName string    `gorm:"type:varchar(120);not null" json:"display_name"`
	Rating      int       `gorm:"not null" json:"rating"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsPublished bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AmazonReview is a manually curated marketplace review shown on product pages.
type AmazonReview struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID    *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Rating       int        `gorm:"not null" json:"rating"`
	Title        *string    `gorm:"type:text" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	ReviewerName *string    `gorm:"type:varchar(120)" json:"reviewer_name"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
