package auth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

// GET /auth/verify-email?token=
func VerifyEmail(db *gorm.DB, baseURL string) gin.HandlerFunc {
	successURL := baseURL + "/email-verified"
	failURL := func(msg string) string {
		return baseURL + "/email-verify-error?message=" + url.QueryEscape(msg)
	}

	return func(c *gin.Context) {
		tokenID := c.Query("token")
		if tokenID == "" {
			c.Redirect(http.StatusFound, failURL("Verification token is missing"))
			return
		}

		var token models.AuthToken
		err := db.Where("id = ? AND kind = ?", tokenID, models.TokenVerifyEmail).First(&token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Redirect(http.StatusFound, failURL("Verification link is invalid"))
			return
		}
		if err != nil {
			c.Redirect(http.StatusFound, failURL("Verification failed, please try again"))
			return
		}

		now := time.Now()
		if !token.Usable(now) {
			c.Redirect(http.StatusFound, failURL("Verification link has expired or was already used"))
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
				Update("email_verified_at", now).Error; err != nil {
				return err
			}
			return tx.Model(&token).Update("used_at", now).Error
		})
		if err != nil {
			c.Redirect(http.StatusFound, failURL("Verification failed, please try again"))
			return
		}

		c.Redirect(http.StatusFound, successURL)
	}
}
