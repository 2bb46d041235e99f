package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/veloracart/ecommerce-api/auth"
	"github.com/veloracart/ecommerce-api/middleware"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

// SetupAuthRoutes registers the public "/auth/*" endpoints. All of them
// sit behind the auth rate-limit class.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(deps.Limiter, ratelimit.ClassAuth))
	{
		authGroup.POST("/signup", auth.Signup(deps.DB, deps.Mailer))
		authGroup.POST("/login", auth.Login(deps.DB, deps.Config.JWTSecret))
		authGroup.GET("/verify-email", auth.VerifyEmail(deps.DB, deps.Config.AppBaseURL))
		authGroup.POST("/reset-password", auth.RequestPasswordReset(deps.DB, deps.Mailer))
		authGroup.PUT("/reset-password", auth.ConsumePasswordReset(deps.DB))
		authGroup.POST("/guest", auth.CreateGuestUser(deps.DB))
	}
}
