package routes

import (
	"github.com/gin-gonic/gin"

	adminControllers "github.com/veloracart/ecommerce-api/controllers/admin"
	orderControllers "github.com/veloracart/ecommerce-api/controllers/order"
	productcontroller "github.com/veloracart/ecommerce-api/controllers/product"
	"github.com/veloracart/ecommerce-api/middleware"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

// SetupAdminRoutes registers the "/admin/*" endpoints behind the JWT
// middleware and the role policy gate. User-role management gets the
// stricter "admin.users" policy.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(
		middleware.RateLimit(deps.Limiter, ratelimit.ClassAPI),
		middleware.ValidateToken(deps.Config.JWTSecret),
		middleware.RequirePolicy("admin"),
	)
	{
		adminGroup.GET("/dashboard", adminControllers.GetDashboardStats(deps.DB))

		userAdmin := adminGroup.Group("/users")
		userAdmin.Use(middleware.RequirePolicy("admin.users"))
		{
			userAdmin.GET("", adminControllers.GetAllUsers(deps.DB))
			userAdmin.PATCH("/:id", adminControllers.UpdateUserRole(deps.DB))
		}

		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrders(deps.DB))
			orderAdmin.GET("/live", orderControllers.OrderWebSocketHandler)
			orderAdmin.GET("/:order_id", orderControllers.GetOrderByID(deps.DB))
			orderAdmin.PATCH("/:order_id", orderControllers.UpdateOrder(deps.DB))
			orderAdmin.POST("/:order_id/refund", orderControllers.RefundOrder(deps.DB, deps.Gateway))
		}

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(deps.DB))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(deps.DB))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(deps.DB))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(deps.DB))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(deps.DB))
		}

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(deps.DB))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(deps.DB))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(deps.DB))
		}

		collectionAdmin := adminGroup.Group("/collections")
		{
			collectionAdmin.POST("", productcontroller.CreateCollection(deps.DB))
			collectionAdmin.PATCH("/:id", productcontroller.UpdateCollection(deps.DB))
			collectionAdmin.DELETE("/:id", productcontroller.DeleteCollection(deps.DB))
		}
	}
}
