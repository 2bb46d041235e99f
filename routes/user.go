package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/veloracart/ecommerce-api/controllers/cart"
	orderControllers "github.com/veloracart/ecommerce-api/controllers/order"
	userControllers "github.com/veloracart/ecommerce-api/controllers/user"
	"github.com/veloracart/ecommerce-api/middleware"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

// SetupUserRoutes registers the JWT-protected "/user/*" endpoints.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(
		middleware.RateLimit(deps.Limiter, ratelimit.ClassAPI),
		middleware.ValidateToken(deps.Config.JWTSecret),
	)
	{
		userGroup.GET("", userControllers.GetUser(deps.DB))
		userGroup.PUT("", userControllers.UpdateUser(deps.DB))

		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.GET("", userControllers.GetAddresses(deps.DB))
			addressGroup.POST("", userControllers.CreateAddress(deps.DB))
			addressGroup.PUT("/:id", userControllers.UpdateAddress(deps.DB))
			addressGroup.DELETE("/:id", userControllers.DeleteAddress(deps.DB))
		}

		cartGroup := userGroup.Group("/cart")
		cartGroup.Use(middleware.RateLimit(deps.Limiter, ratelimit.ClassCart))
		{
			cartGroup.GET("", cartControllers.GetCart(deps.DB))
			cartGroup.POST("", cartControllers.AddCartItem(deps.DB))
			cartGroup.PUT("/:item_id", cartControllers.UpdateCartQuantity(deps.DB))
			cartGroup.DELETE("/:item_id", cartControllers.RemoveCartItem(deps.DB))
			cartGroup.DELETE("", cartControllers.ClearCart(deps.DB))
		}

		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("", userControllers.GetWishlist(deps.DB))
			wishlistGroup.POST("", userControllers.AddWishlistItem(deps.DB))
			wishlistGroup.DELETE("/:productId", userControllers.RemoveWishlistItem(deps.DB))
		}

		userGroup.POST("/checkout",
			middleware.RateLimit(deps.Limiter, ratelimit.ClassCheckout),
			orderControllers.CheckoutHandler(deps.DB, deps.Gateway, deps.Config.ShippingFlatCents))
		userGroup.GET("/orders", orderControllers.GetUserOrders(deps.DB))
		userGroup.GET("/orders/:order_id", orderControllers.GetUserOrderByID(deps.DB))
	}
}
