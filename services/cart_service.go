package services

import (
	"context"
	"errors"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartLine is a cart item joined with the product as it is priced right now.
type CartLine struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"productId"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	PriceINR     int64     `json:"price_inr"`
	Quantity     int       `json:"quantity"`
	LineTotalINR int64     `json:"line_total_inr"`
}

type CartView struct {
	Empty       bool       `json:"empty"`
	CartID      *uuid.UUID `json:"cartId"`
	Items       []CartLine `json:"items"`
	SubtotalINR int64      `json:"subtotal_inr"`
}

type CartService interface {
	View(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, actor Actor, productID uuid.UUID, quantity int) error
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type cartService struct {
	carts     repository.CartRepository
	catalog   repository.CatalogRepository
	analytics AnalyticsService
	logger    *zap.Logger
}

func NewCartService(carts repository.CartRepository, catalog repository.CatalogRepository, analytics AnalyticsService, logger *zap.Logger) CartService {
	return &cartService{carts: carts, catalog: catalog, analytics: analytics, logger: logger}
}

func toCartLines(items []models.CartItem) ([]CartLine, int64) {
	lines := make([]CartLine, 0, len(items))
	var subtotal int64
	for _, it := range items {
		lineTotal := it.Product.PriceINR * int64(it.Quantity)
		subtotal += lineTotal
		lines = append(lines, CartLine{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Name:         it.Product.Name,
			Slug:         it.Product.Slug,
			PriceINR:     it.Product.PriceINR,
			Quantity:     it.Quantity,
			LineTotalINR: lineTotal,
		})
	}
	return lines, subtotal
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func (s *cartService) View(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.carts.FindActiveByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CartView{Empty: true, Items: []CartLine{}}, nil
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	items, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	lines, subtotal := toCartLines(items)
	cartID := cart.ID
	return &CartView{Empty: len(lines) == 0, CartID: &cartID, Items: lines, SubtotalINR: subtotal}, nil
}

// AddItem sets the line for productID to quantity, creating the active cart on first use.
func (s *cartService) AddItem(ctx context.Context, actor Actor, productID uuid.UUID, quantity int) error {
	quantity = clampQuantity(quantity)

	if _, err := s.catalog.FindActiveProductByID(ctx, productID); err != nil {
		return notFoundOr(err, "Product not found")
	}

	cart, err := s.carts.GetOrCreateActive(ctx, actor.UserID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if err := s.carts.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
		return apperrors.Storage(err)
	}

	s.analytics.Track(ctx, Event{
		Name:      models.EventAddToCart,
		Path:      "/cart",
		Meta:      map[string]interface{}{"productId": productID.String(), "quantity": quantity},
		UserID:    actor.userRef(),
		SessionID: actor.SessionID,
		Referrer:  actor.Referrer,
	})
	return nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	ok, err := s.carts.UpdateItemQuantity(ctx, userID, itemID, clampQuantity(quantity))
	if err != nil {
		return apperrors.Storage(err)
	}
	if !ok {
		return apperrors.NotFound("Cart item not found")
	}
	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	ok, err := s.carts.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if !ok {
		return apperrors.NotFound("Cart item not found")
	}
	return nil
}
