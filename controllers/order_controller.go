package controllers

import (
	"net/http"

	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders services.OrderService
}

func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// GetOrders returns paginated orders for the authenticated user
func (oc *OrderController) GetOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)
	result, err := oc.orders.GetUserOrders(c.Request.Context(), actorFrom(c).UserID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOrder backs the order confirmation view.
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	order, err := oc.orders.GetOrderByID(c.Request.Context(), actorFrom(c).UserID, orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}
