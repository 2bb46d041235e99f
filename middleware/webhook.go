package middleware

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentWebhookAuth verifies the gateway's form signature. Sandbox mode
// skips verification so local runs can post test webhooks.
func PaymentWebhookAuth(secret, mode string) gin.HandlerFunc {
	sandbox := mode == "sandbox" || mode == "dev"

	return func(c *gin.Context) {
		if sandbox {
			zap.S().Debug("sandbox mode: skipping webhook signature verification")
			c.Next()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			c.Abort()
			return
		}

		providedCheck := c.PostForm("tran_check")
		if providedCheck == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}

		fieldList := []string{
			"tran_store", "tran_type", "tran_class", "tran_test", "tran_ref",
			"tran_prevref", "tran_firstref", "tran_order", "tran_currency",
			"tran_amount", "tran_cartid", "tran_desc", "tran_status",
			"tran_authcode", "tran_authmessage",
		}

		parts := []string{secret}
		for _, f := range fieldList {
			parts = append(parts, strings.TrimSpace(c.PostForm(f)))
		}

		h := sha1.New()
		h.Write([]byte(strings.Join(parts, ":")))
		calculated := hex.EncodeToString(h.Sum(nil))

		if !strings.EqualFold(calculated, providedCheck) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
