package controllers

import (
	"net/http"

	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartController struct {
	carts services.CartService
}

func NewCartController(carts services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) View(c *gin.Context) {
	actor := actorFrom(c)
	view, err := cc.carts.View(c.Request.Context(), actor.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required,uuid"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	actor := actorFrom(c)
	if err := cc.carts.AddItem(c.Request.Context(), actor, uuid.MustParse(req.ProductID), req.Quantity); err != nil {
		_ = c.Error(err)
		return
	}
	cc.View(c)
}

func (cc *CartController) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	actor := actorFrom(c)
	if err := cc.carts.UpdateQuantity(c.Request.Context(), actor.UserID, itemID, req.Quantity); err != nil {
		_ = c.Error(err)
		return
	}
	cc.View(c)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	actor := actorFrom(c)
	if err := cc.carts.RemoveItem(c.Request.Context(), actor.UserID, itemID); err != nil {
		_ = c.Error(err)
		return
	}
	cc.View(c)
}
