package controllers

import (
	"net/http"

	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WishlistController struct {
	wishlists services.WishlistService
}

func NewWishlistController(wishlists services.WishlistService) *WishlistController {
	return &WishlistController{wishlists: wishlists}
}

func (wc *WishlistController) List(c *gin.Context) {
	products, err := wc.wishlists.List(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (wc *WishlistController) Toggle(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	inWishlist, err := wc.wishlists.Toggle(c.Request.Context(), actorFrom(c).UserID, uuid.MustParse(req.ProductID))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inWishlist": inWishlist})
}
