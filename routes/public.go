package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/veloracart/ecommerce-api/controllers/product"
	"github.com/veloracart/ecommerce-api/middleware"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

// SetupPublicRoutes registers the unauthenticated catalog reads.
func SetupPublicRoutes(r *gin.Engine, deps Deps) {
	public := r.Group("/")
	public.Use(middleware.RateLimit(deps.Limiter, ratelimit.ClassAPI))
	{
		public.GET("/products", productcontroller.GetProducts(deps.DB))
		public.GET("/products/:id", productcontroller.GetProductByID(deps.DB))
		public.GET("/categories", productcontroller.GetAllCategories(deps.DB))
		public.GET("/collections", productcontroller.GetCollections(deps.DB))
		public.GET("/collections/:id", productcontroller.GetCollectionByID(deps.DB))
	}
}
