package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/veloracart/ecommerce-api/controllers/cart"
	"github.com/veloracart/ecommerce-api/middleware"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

// SetupGuestRoutes registers the "/guest/cart" endpoints. They are keyed
// by guest_id rather than a JWT, so only the cart rate limit applies.
func SetupGuestRoutes(r *gin.Engine, deps Deps) {
	guestGroup := r.Group("/guest/cart")
	guestGroup.Use(middleware.RateLimit(deps.Limiter, ratelimit.ClassCart))
	{
		guestGroup.GET("", cartControllers.GetGuestCart(deps.GuestCart))
		guestGroup.GET("/count", cartControllers.GetGuestCartCount(deps.GuestCart))
		guestGroup.POST("", cartControllers.AddGuestCartItem(deps.GuestCart))
		guestGroup.PUT("/:product_id", cartControllers.SetGuestCartQuantity(deps.GuestCart))
		guestGroup.DELETE("/:product_id", cartControllers.RemoveGuestCartItem(deps.GuestCart))
		guestGroup.DELETE("", cartControllers.ClearGuestCart(deps.GuestCart))
	}
}
