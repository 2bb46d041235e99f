package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veloracart/ecommerce-api/config"
	"github.com/veloracart/ecommerce-api/guestcart"
	"github.com/veloracart/ecommerce-api/mailer"
	"github.com/veloracart/ecommerce-api/payment"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

// Deps carries everything the route groups need. Built once in main.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Limiter   *ratelimit.Limiter
	GuestCart *guestcart.Store
	Gateway   payment.Gateway
	Mailer    mailer.Sender
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupAuthRoutes(r, deps)
	SetupPublicRoutes(r, deps)
	SetupGuestRoutes(r, deps)
	SetupUserRoutes(r, deps)
	SetupAdminRoutes(r, deps)
	SetupPaymentRoutes(r, deps)
	SetupMaintenanceRoutes(r, deps)
}
