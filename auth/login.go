package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	GuestID  string `json:"guest_id"`
}

// POST /auth/login
func Login(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
			return
		}

		// One-shot guest cart migration on the anonymous -> authenticated
		// transition. A failed merge leaves the guest cart intact so the
		// next login can retry the full contents.
		mergeStatus := "no-guest-cart"
		if input.GuestID != "" {
			merged, err := MergeGuestCart(db, input.GuestID, user.ID)
			switch {
			case err != nil:
				mergeStatus = "merge-failed"
			case merged:
				mergeStatus = "merged"
			default:
				mergeStatus = "guest-cart-empty"
			}
		}

		token, err := IssueToken(jwtSecret, user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":        token,
			"user":         user,
			"merge_status": mergeStatus,
		})
	}
}
