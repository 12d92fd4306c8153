package controllers

import (
	"net/http"

	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentController struct {
	payments services.PaymentService
}

func NewPaymentController(payments services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

func (pc *PaymentController) CreateIntent(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	outcome, err := pc.payments.CreateIntent(c.Request.Context(), actorFrom(c), uuid.MustParse(req.OrderID))
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := gin.H{"ok": true, "paymentId": outcome.PaymentID, "status": outcome.Status}
	if outcome.RedirectURL != nil {
		resp["redirectUrl"] = *outcome.RedirectURL
	}
	if outcome.ClientSecret != nil {
		resp["clientSecret"] = *outcome.ClientSecret
	}
	c.JSON(http.StatusOK, resp)
}

// Verify re-checks a payment with its provider. Safe to call repeatedly.
func (pc *PaymentController) Verify(c *gin.Context) {
	var req struct {
		PaymentID string `json:"paymentId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	outcome, err := pc.payments.Verify(c.Request.Context(), actorFrom(c), uuid.MustParse(req.PaymentID))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": outcome.Status})
}
