package services

import (
	"context"
	"errors"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testimonialsLimit   = 6
	productReviewsLimit = 8
	maxProductsLimit    = 100
)

type ProductQuery struct {
	CategorySlug string
	FeaturedOnly bool
	Limit        int
}

type ProductDetail struct {
	models.Product
	Reviews []models.AmazonReview `json:"reviews"`
}

type CatalogService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Products(ctx context.Context, q ProductQuery) ([]models.Product, error)
	Product(ctx context.Context, slug string) (*ProductDetail, error)
	Testimonials(ctx context.Context) ([]models.Testimonial, error)
}

type catalogService struct {
	repo   repository.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo repository.CatalogRepository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return categories, nil
}

// Products lists active products. An unknown category slug lists everything.
func (s *catalogService) Products(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	filter := repository.ProductFilter{FeaturedOnly: q.FeaturedOnly, Limit: q.Limit}
	if filter.Limit <= 0 || filter.Limit > maxProductsLimit {
		filter.Limit = maxProductsLimit
	}

	if q.CategorySlug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, q.CategorySlug)
		switch {
		case err == nil:
			filter.CategoryID = &category.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Debug("Unknown category slug, listing all products", zap.String("slug", q.CategorySlug))
		default:
			return nil, apperrors.Storage(err)
		}
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return products, nil
}

func (s *catalogService) Product(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	reviews, err := s.repo.ListReviewsForProduct(ctx, product.ID, productReviewsLimit)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &ProductDetail{Product: *product, Reviews: reviews}, nil
}

func (s *catalogService) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	testimonials, err := s.repo.ListPublishedTestimonials(ctx, testimonialsLimit)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return testimonials, nil
}
