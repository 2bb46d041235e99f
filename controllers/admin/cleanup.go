package adminControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReleaseExpiredReservations returns expired reservation stock to the
// products and cancels the still-unpaid orders they belong to. Paid
// orders keep their stock even if the reservation row lingered.
func ReleaseExpiredReservations(db *gorm.DB, now time.Time) (released int, cancelled int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var reservations []models.StockReservation
		if err := tx.Where("expires_at < ?", now).Find(&reservations).Error; err != nil {
			return err
		}
		if len(reservations) == 0 {
			return nil
		}

		orderNumbers := make(map[string]bool)
		for _, r := range reservations {
			orderNumbers[r.OrderNumber] = true
		}

		unpaid := make(map[string]bool)
		for number := range orderNumbers {
			var order models.Order
			if err := tx.First(&order, "order_number = ?", number).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return err
			}
			if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentPending {
				continue
			}
			unpaid[number] = true

			reason := "payment not received before reservation expiry"
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
				Updates(map[string]interface{}{
					"status":        models.OrderStatusCancelled,
					"cancel_reason": reason,
					"cancelled_at":  now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				cancelled++
			}
		}

		for _, r := range reservations {
			if unpaid[r.OrderNumber] {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", r.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", r.Quantity)).Error; err != nil {
					return err
				}
				released++
			}
		}

		return tx.Where("expires_at < ?", now).Delete(&models.StockReservation{}).Error
	})
	return released, cancelled, err
}

// POST /maintenance/cleanup-reservations
func CleanupReservations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		released, cancelled, err := ReleaseExpiredReservations(db, time.Now())
		if err != nil {
			zap.S().Errorw("reservation cleanup failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release expired reservations"})
			return
		}

		zap.S().Infow("reservation cleanup completed",
			"released", released, "cancelled_orders", cancelled)
		c.JSON(http.StatusOK, gin.H{
			"message":          "Cleanup completed",
			"released":         released,
			"cancelled_orders": cancelled,
		})
	}
}
