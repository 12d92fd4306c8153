package controllers

import (
	"net/http"
	"strconv"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	admin    services.AdminService
	payments services.PaymentService
}

func NewAdminController(admin services.AdminService, payments services.PaymentService) *AdminController {
	return &AdminController{admin: admin, payments: payments}
}

func (ac *AdminController) ListOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)
	result, err := ac.admin.ListOrders(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	order, err := ac.admin.UpdateOrderStatus(c.Request.Context(), orderID, models.OrderStatus(req.Status))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ac *AdminController) RefundPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}
	var req struct {
		AmountINR *int64 `json:"amountInr"`
	}
	// empty body refunds the full amount
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}
	}

	payment, err := ac.payments.Refund(c.Request.Context(), paymentID, req.AmountINR)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (ac *AdminController) Dashboard(c *gin.Context) {
	dash, err := ac.admin.Dashboard(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (ac *AdminController) Analytics(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultAnalyticsDays)))
	if err != nil {
		days = services.DefaultAnalyticsDays
	}
	report, err := ac.admin.DailyAnalytics(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ac *AdminController) ChatMessages(c *gin.Context) {
	page, limit := parsePaginationParams(c)
	result, err := ac.admin.ListChatMessages(c.Request.Context(), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
