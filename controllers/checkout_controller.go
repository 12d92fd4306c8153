package controllers

import (
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/middleware"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkout services.CheckoutService
}

func NewCheckoutController(checkout services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// placeOrderRequest accepts the checkout form as posted by the storefront or as JSON.
type placeOrderRequest struct {
	FullName     string `form:"fullName" json:"fullName" binding:"required,max=120"`
	Phone        string `form:"phone" json:"phone" binding:"required,min=7,max=20"`
	AddressLine1 string `form:"addressLine1" json:"addressLine1" binding:"required,max=200"`
	AddressLine2 string `form:"addressLine2" json:"addressLine2" binding:"max=200"`
	City         string `form:"city" json:"city" binding:"required,max=80"`
	State        string `form:"state" json:"state" binding:"required,max=80"`
	Pincode      string `form:"pincode" json:"pincode" binding:"required,pincode"`
}

func (r placeOrderRequest) address() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     strings.TrimSpace(r.FullName),
		Phone:        strings.TrimSpace(r.Phone),
		AddressLine1: strings.TrimSpace(r.AddressLine1),
		AddressLine2: strings.TrimSpace(r.AddressLine2),
		City:         strings.TrimSpace(r.City),
		State:        strings.TrimSpace(r.State),
		Pincode:      strings.TrimSpace(r.Pincode),
	}
}

// Summary renders the checkout page data and records checkout_started.
func (cc *CheckoutController) Summary(c *gin.Context) {
	summary, err := cc.checkout.Summary(c.Request.Context(), actorFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// PlaceOrder turns the active cart into an order and runs the payment. Form posts are
// answered with redirects; JSON callers get the result or an error body.
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	asJSON := middleware.WantsJSON(c)

	var req placeOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		if asJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/checkout?error=invalid_address")
		return
	}

	result, err := cc.checkout.PlaceOrder(c.Request.Context(), actorFrom(c), req.address())
	switch {
	case err == nil:
	case !asJSON && errors.Is(err, apperrors.ErrEmptyCart):
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	case !asJSON && apperrors.IsKind(err, apperrors.KindConflict):
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	default:
		_ = c.Error(err)
		return
	}

	if asJSON {
		c.JSON(http.StatusCreated, result)
		return
	}
	c.Redirect(http.StatusSeeOther, "/order-confirmation/"+result.OrderID.String())
}
