package adminControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "name", "phone", "role", "is_active", "email_verified_at", "created_at").
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

type UpdateUserRoleInput struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// PATCH /admin/users/:id
func UpdateUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("id")
		actorID, _ := c.Get("user_id")

		var input UpdateUserRoleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		err := db.First(&user, "id = ?", targetID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}

		updates := make(map[string]interface{})
		if input.Role != nil {
			role := models.Role(*input.Role)
			if !role.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role: " + *input.Role})
				return
			}
			// Admins cannot change their own role.
			if actor, ok := actorID.(string); ok && actor == user.ID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
				return
			}
			updates["role"] = role
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}
