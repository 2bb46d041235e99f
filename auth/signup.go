package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/veloracart/ecommerce-api/mailer"
	"github.com/veloracart/ecommerce-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// isDuplicateKey pattern-matches the database's unique violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2"`
	Phone    string `json:"phone"`
}

// POST /auth/signup
func Signup(db *gorm.DB, mail mailer.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignupInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var existing models.User
		err := db.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		userID := uuid.NewString()
		user := models.User{
			ID:           userID,
			Email:        input.Email,
			PasswordHash: string(hash),
			Name:         input.Name,
			Phone:        input.Phone,
			Role:         models.RoleCustomer,
			IsActive:     true,
			Cart:         models.Cart{UserID: userID},
		}
		if err := db.Create(&user).Error; err != nil {
			// The pre-check races with concurrent signups; the unique index
			// is the real guard, so its violation is the same 400.
			if isDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		token := models.AuthToken{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Kind:      models.TokenVerifyEmail,
			ExpiresAt: time.Now().Add(models.VerifyTokenTTL),
		}
		if err := db.Create(&token).Error; err == nil {
			// Send failures are logged inside the mailer; signup still
			// succeeds and the user can request a resend.
			mail.SendVerification(user.Email, token.ID)
		}

		c.JSON(http.StatusCreated, user)
	}
}
