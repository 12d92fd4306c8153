package services

import (
	"context"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
)

type WishlistService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type wishlistService struct {
	wishlists repository.WishlistRepository
	catalog   repository.CatalogRepository
}

func NewWishlistService(wishlists repository.WishlistRepository, catalog repository.CatalogRepository) WishlistService {
	return &wishlistService{wishlists: wishlists, catalog: catalog}
}

func (s *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	items, err := s.wishlists.ListItems(ctx, userID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	products := make([]models.Product, 0, len(items))
	for _, it := range items {
		products = append(products, it.Product)
	}
	return products, nil
}

// Toggle reports whether the product is in the wishlist afterwards.
func (s *wishlistService) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if _, err := s.catalog.FindActiveProductByID(ctx, productID); err != nil {
		return false, notFoundOr(err, "Product not found")
	}
	wishlist, err := s.wishlists.GetOrCreate(ctx, userID)
	if err != nil {
		return false, apperrors.Storage(err)
	}
	added, err := s.wishlists.Toggle(ctx, wishlist.ID, productID)
	if err != nil {
		return false, apperrors.Storage(err)
	}
	return added, nil
}
