package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/controllers"
	"storefront-backend/middleware"
	"storefront-backend/services"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Auth         *controllers.AuthController
	Products     *controllers.ProductController
	Carts        *controllers.CartController
	Coupons      *controllers.CouponController
	Orders       *controllers.OrderController
	Payments     *controllers.PaymentController
	Appointments *controllers.AppointmentController
	Reviews      *controllers.ReviewController
	Content      *controllers.ContentController
	Analytics    *controllers.AnalyticsController
}

// RegisterRoutes mounts the public storefront, the authenticated customer
// surface and the admin dashboard under /api/v1.
func RegisterRoutes(router *gin.Engine, ctrl Controllers, tokens *services.TokenService) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Stripe calls this; authenticated by signature, not by JWT.
	router.POST("/webhooks/stripe", ctrl.Payments.StripeWebhook)

	api := router.Group("/api/v1")

	// Public storefront.
	api.POST("/auth/register", ctrl.Auth.Register)
	api.POST("/auth/login", ctrl.Auth.Login)
	api.GET("/products", ctrl.Products.List)
	api.GET("/products/:slug", ctrl.Products.GetBySlug)
	api.GET("/products/:slug/reviews", ctrl.Products.ListReviews)
	api.POST("/coupons/validate", ctrl.Coupons.Validate)
	api.GET("/blog", ctrl.Content.ListPosts(false))
	api.GET("/blog/:slug", ctrl.Content.GetPost(false))
	api.GET("/banners", ctrl.Content.ListBanners(true))
	api.POST("/newsletter/subscribe", ctrl.Content.Subscribe)
	api.POST("/newsletter/unsubscribe", ctrl.Content.Unsubscribe)
	api.POST("/contact", ctrl.Content.SubmitContact)

	// Authenticated customers.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))
	{
		authed.GET("/auth/me", ctrl.Auth.Me)

		authed.GET("/cart", ctrl.Carts.Get)
		authed.PUT("/cart/items", ctrl.Carts.SetItem)
		authed.DELETE("/cart/items/:productId", ctrl.Carts.RemoveItem)
		authed.DELETE("/cart", ctrl.Carts.Clear)

		authed.POST("/orders", ctrl.Orders.Create)
		authed.GET("/orders", ctrl.Orders.ListMine)
		authed.GET("/orders/:id", ctrl.Orders.GetMine)
		authed.POST("/orders/:id/cancel", ctrl.Orders.Cancel)

		authed.POST("/appointments", ctrl.Appointments.Book)
		authed.GET("/appointments", ctrl.Appointments.ListMine)

		authed.POST("/products/:slug/reviews", ctrl.Reviews.Submit)
	}

	// Admin dashboard.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.AdminOnly())
	{
		admin.POST("/products", ctrl.Products.Create)
		admin.PATCH("/products/:id", ctrl.Products.Update)
		admin.DELETE("/products/:id", ctrl.Products.Delete)
		admin.POST("/products/:id/variants", ctrl.Products.AddVariant)
		admin.PATCH("/variants/:variantId", ctrl.Products.UpdateVariant)
		admin.DELETE("/variants/:variantId", ctrl.Products.DeleteVariant)

		admin.POST("/coupons", ctrl.Coupons.Create)
		admin.GET("/coupons", ctrl.Coupons.List)
		admin.GET("/coupons/:code", ctrl.Coupons.Get)
		admin.DELETE("/coupons/:code", ctrl.Coupons.Deactivate)

		admin.GET("/orders", ctrl.Orders.ListAll)
		admin.PATCH("/orders/:id/status", ctrl.Orders.UpdateStatus)

		admin.GET("/appointments", ctrl.Appointments.ListAll)
		admin.PATCH("/appointments/:id/status", ctrl.Appointments.UpdateStatus)

		admin.GET("/reviews", ctrl.Reviews.ListAll)
		admin.GET("/reviews/:id", ctrl.Reviews.Get)
		admin.POST("/reviews/:id/approve", ctrl.Reviews.Approve)
		admin.POST("/reviews/:id/reject", ctrl.Reviews.Reject)
		admin.DELETE("/reviews/:id", ctrl.Reviews.Delete)

		admin.GET("/blog", ctrl.Content.ListPosts(true))
		admin.POST("/blog", ctrl.Content.CreatePost)
		admin.PATCH("/blog/:slug", ctrl.Content.UpdatePost)
		admin.DELETE("/blog/:id", ctrl.Content.DeletePost)

		admin.GET("/banners", ctrl.Content.ListBanners(false))
		admin.POST("/banners", ctrl.Content.CreateBanner)
		admin.PUT("/banners/:id", ctrl.Content.UpdateBanner)
		admin.DELETE("/banners/:id", ctrl.Content.DeleteBanner)

		admin.GET("/newsletter", ctrl.Content.ListSubscribers)
		admin.GET("/contact", ctrl.Content.ListContactMessages)

		admin.GET("/analytics", ctrl.Analytics.Dashboard)
		admin.GET("/analytics/orders.csv", ctrl.Analytics.ExportOrders)
	}
}
