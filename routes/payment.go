package routes

import (
	"github.com/gin-gonic/gin"

	adminControllers "github.com/veloracart/ecommerce-api/controllers/admin"
	paymentControllers "github.com/veloracart/ecommerce-api/controllers/payment"
	"github.com/veloracart/ecommerce-api/middleware"
)

// SetupPaymentRoutes registers the gateway callback. The handler only
// runs after the signature check passes.
func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	r.POST("/payments/webhook",
		middleware.PaymentWebhookAuth(deps.Config.PaymentWebhookSecret, deps.Config.PaymentMode),
		paymentControllers.WebhookHandler(deps.DB))
}

// SetupMaintenanceRoutes registers the API-key-protected housekeeping
// endpoints. These bypass the role gate on purpose: they are called by
// schedulers, not humans.
func SetupMaintenanceRoutes(r *gin.Engine, deps Deps) {
	maintenance := r.Group("/maintenance")
	maintenance.Use(middleware.ValidateAPIKey(deps.Config.MaintenanceAPIKey))
	{
		maintenance.POST("/cleanup-reservations", adminControllers.CleanupReservations(deps.DB))
	}
}
