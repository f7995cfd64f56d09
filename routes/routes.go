package routes

import (
	"github.com/gin-gonic/gin"

	"shopapi/controllers"
	"shopapi/middleware"
)

func RegisterRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{
		api.POST("/register", controllers.Register)
		api.POST("/login", controllers.Login)
		api.POST("/logout", controllers.Logout)

		api.GET("/products", controllers.GetProductsPublic)
		api.GET("/products/:id", controllers.GetProductByID)

		checkout := api.Group("/checkout")
		checkout.Use(middleware.OptionalAuthMiddleware())
		{
			checkout.POST("/guest", controllers.GuestCheckout)
			checkout.POST("/user", middleware.AuthMiddleware(), controllers.UserCheckout)
			checkout.GET("/shipping-methods", controllers.GetShippingMethods)
			checkout.POST("/validate-coupon", controllers.ValidateCoupon)
			checkout.GET("/verify-payment/:reference", controllers.VerifyPayment)
		}

		api.POST("/webhook/paystack", controllers.PaystackWebhook)

		api.GET("/shipping/zones", controllers.GetZones)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.POST("/products", controllers.CreateProduct)
				admin.PUT("/products/:id", controllers.UpdateProduct)
				admin.DELETE("/products/:id", controllers.DeleteProduct)
				admin.GET("/products", controllers.GetProductsAdmin)
				admin.GET("/products/low-stock", controllers.GetLowStockProducts)

				admin.GET("/orders", controllers.GetOrdersAdmin)
				admin.GET("/orders/:id", controllers.GetOrderByIDAdmin)
				admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
				admin.PUT("/orders/:id/tracking", controllers.SetTrackingInfo)
				admin.PUT("/orders/:id/cancel", controllers.CancelOrderAdmin)

				admin.POST("/shipping/zones", controllers.CreateZone)
				admin.PUT("/shipping/zones/:id", controllers.UpdateZone)
				admin.DELETE("/shipping/zones/:id", controllers.DeleteZone)
				admin.GET("/shipping/settings", controllers.GetStoreSettings)
				admin.PUT("/shipping/settings", controllers.UpdateStoreSettings)
				admin.GET("/shipping/pickup", controllers.GetPickupConfig)
				admin.PUT("/shipping/pickup", controllers.UpdatePickupConfig)
			}

			user := protected.Group("/user")
			{
				user.POST("/cart", controllers.AddToCart)
				user.GET("/cart", controllers.GetCart)
				user.PUT("/cart/:productId", controllers.UpdateCart)
				user.DELETE("/cart/:productId", controllers.RemoveFromCart)

				user.GET("/orders", controllers.GetOrders)
				user.GET("/orders/:id", controllers.GetOrderByID)
				user.PUT("/orders/:id/cancel", controllers.CancelOrder)
			}
		}
	}
}
