package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// POST /payments/webhook
// The gateway posts the transaction outcome as form fields. Approved
// moves the order to paid and releases its stock reservations; a declined
// attempt marks the payment failed but keeps the order pending so the
// customer can retry until the reservation sweep reclaims the stock.
func WebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		orderNumber := c.PostForm("tran_cartid")
		status := c.PostForm("tran_status") // "A" = approved
		ref := c.PostForm("tran_ref")

		if orderNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tran_cartid"})
			return
		}

		var order models.Order
		err := db.Where("order_number = ?", orderNumber).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}

		if status != "A" {
			if order.PaymentStatus == models.PaymentPending {
				db.Model(&order).Update("payment_status", models.PaymentFailed)
			}
			c.JSON(http.StatusOK, gin.H{"message": "payment not successful"})
			return
		}

		if !order.Status.CanTransitionTo(models.OrderStatusPaid) {
			// Replayed or out-of-order webhook; acknowledge without change.
			zap.S().Infow("ignoring webhook for order not awaiting payment",
				"order_number", orderNumber, "status", order.Status)
			c.JSON(http.StatusOK, gin.H{"message": "order not awaiting payment"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"status":         models.OrderStatusPaid,
				"payment_status": models.PaymentPaid,
			}
			if ref != "" {
				updates["payment_ref"] = ref
			}
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return err
			}
			// Payment arrived: the decremented stock is now owned by the
			// order, the reservations have done their job.
			return tx.Where("order_number = ?", orderNumber).
				Delete(&models.StockReservation{}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "payment recorded"})
	}
}
