package repository

import (
	"context"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID   *uuid.UUID
	FeaturedOnly bool
	Limit        int
}

// CatalogRepository is read-only access to the storefront tables.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindActiveProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	TopProducts(ctx context.Context, limit int) ([]models.Product, error)
	CountProducts(ctx context.Context) (total, active int64, err error)
	ListPublishedTestimonials(ctx context.Context, limit int) ([]models.Testimonial, error)
	ListReviewsForProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.AmazonReview, error)
}

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

func imagesBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *GormCatalogRepository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCatalogRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Images", imagesBySortOrder).
		Preload("Category").
		Where("is_active = ?", true)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []models.Product
	err := query.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *GormCatalogRepository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", imagesBySortOrder).
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormCatalogRepository) FindActiveProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// TopProducts returns active products, featured first.
func (r *GormCatalogRepository) TopProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("is_featured DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *GormCatalogRepository) CountProducts(ctx context.Context) (int64, int64, error) {
	var total, active int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *GormCatalogRepository) ListPublishedTestimonials(ctx context.Context, limit int) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&testimonials).Error
	return testimonials, err
}

func (r *GormCatalogRepository) ListReviewsForProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.AmazonReview, error) {
	var reviews []models.AmazonReview
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}
