package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
)

// Permission policy: one table mapping a policy name to the roles allowed
// through, instead of inline role comparisons scattered across handlers.
var policies = map[string][]models.Role{
	"admin":       {models.RoleAdmin, models.RoleManager},
	"admin.users": {models.RoleAdmin},
	"support":     {models.RoleAdmin, models.RoleManager, models.RoleSupport},
}

// RequirePolicy gates a route group on the named policy. Must run after
// ValidateToken: a missing token is 401, a role outside the permitted set
// is 403, and the wrapped handler runs unchanged otherwise.
func RequirePolicy(name string) gin.HandlerFunc {
	allowed, ok := policies[name]
	if !ok {
		panic("unknown permission policy: " + name)
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		role := models.Role(roleVal.(string))
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
