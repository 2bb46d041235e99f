package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/veloracart/ecommerce-api/mailer"
	"github.com/veloracart/ecommerce-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetConsumeInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /auth/reset-password
// Always answers 200 so the endpoint cannot be used to probe which emails
// have accounts.
func RequestPasswordReset(db *gorm.DB, mail mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err == nil {
			token := models.AuthToken{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				Kind:      models.TokenResetPassword,
				ExpiresAt: time.Now().Add(models.ResetTokenTTL),
			}
			if err := db.Create(&token).Error; err == nil {
				mail.SendPasswordReset(user.Email, token.ID)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent"})
	}
}

// PUT /auth/reset-password
func ConsumePasswordReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetConsumeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var token models.AuthToken
		err := db.Where("id = ? AND kind = ?", input.Token, models.TokenResetPassword).First(&token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token is invalid"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
			return
		}

		now := time.Now()
		if !token.Usable(now) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token has expired or was already used"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
				Update("password_hash", string(hash)).Error; err != nil {
				return err
			}
			// Consuming one token invalidates every other outstanding
			// reset token for the same user.
			return tx.Model(&models.AuthToken{}).
				Where("user_id = ? AND kind = ? AND used_at IS NULL", token.UserID, models.TokenResetPassword).
				Update("used_at", now).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
