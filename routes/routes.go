package routes

import (
	"github.com/Ryan-gomezzz/Hush-gentle/common/auth"
	commonmw "github.com/Ryan-gomezzz/Hush-gentle/common/middleware"
	"github.com/Ryan-gomezzz/Hush-gentle/controllers"
	"github.com/Ryan-gomezzz/Hush-gentle/middleware"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Catalog   *controllers.CatalogController
	Cart      *controllers.CartController
	Wishlist  *controllers.WishlistController
	Checkout  *controllers.CheckoutController
	Orders    *controllers.OrderController
	Payments  *controllers.PaymentController
	Analytics *controllers.AnalyticsController
	Chat      *controllers.ChatController
	Webhooks  *controllers.WebhookController
	Admin     *controllers.AdminController
}

type AuthOptions struct {
	Tokens              *auth.TokenManager
	AdminEmail          string
	TrustGatewayHeaders bool
	CookieSecure        bool
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers, opts AuthOptions) {
	// Stripe calls this directly; no session or user
	r.POST("/webhooks/stripe", ctrl.Webhooks.StripeWebhook)

	store := r.Group("/")
	store.Use(middleware.Session(opts.CookieSecure))
	store.Use(middleware.Authenticate(opts.Tokens, opts.TrustGatewayHeaders))

	store.GET("/categories", ctrl.Catalog.Categories)
	store.GET("/products", ctrl.Catalog.Products)
	store.GET("/products/:slug", ctrl.Catalog.Product)
	store.GET("/testimonials", ctrl.Catalog.Testimonials)

	user := store.Group("/")
	user.Use(middleware.RequireUser(""))
	{
		user.GET("/cart", ctrl.Cart.View)
		user.POST("/cart/items", ctrl.Cart.AddItem)
		user.PATCH("/cart/items/:id", ctrl.Cart.UpdateItem)
		user.DELETE("/cart/items/:id", ctrl.Cart.RemoveItem)

		user.GET("/wishlist", ctrl.Wishlist.List)
		user.POST("/wishlist/toggle", ctrl.Wishlist.Toggle)

		user.GET("/checkout", ctrl.Checkout.Summary)

		user.GET("/orders", ctrl.Orders.GetOrders)
		user.GET("/orders/:id", ctrl.Orders.GetOrder)

		user.POST("/api/payments/create-intent", ctrl.Payments.CreateIntent)
		user.POST("/api/payments/verify", ctrl.Payments.Verify)
	}

	store.POST("/checkout", middleware.RequireUser("/login"), ctrl.Checkout.PlaceOrder)

	store.POST("/api/analytics", commonmw.RateLimitMiddleware(120, 40), ctrl.Analytics.Track)
	store.POST("/api/chat", commonmw.RateLimitMiddleware(30, 10), ctrl.Chat.Reply)

	admin := store.Group("/admin")
	admin.Use(middleware.AdminOnly(opts.AdminEmail))
	{
		admin.GET("/orders", ctrl.Admin.ListOrders)
		admin.PATCH("/orders/:id/status", ctrl.Admin.UpdateOrderStatus)
		admin.POST("/payments/:id/refund", ctrl.Admin.RefundPayment)
		admin.GET("/dashboard", ctrl.Admin.Dashboard)
		admin.GET("/analytics", ctrl.Admin.Analytics)
		admin.GET("/chat/messages", ctrl.Admin.ChatMessages)
	}
}
