package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

// UpdateOrderInput is a partial update: only fields present in the request
// body are applied, absence never nulls a field out.
type UpdateOrderInput struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"payment_status"`
	TrackingNumber *string `json:"tracking_number"`
	CancelReason   *string `json:"cancel_reason"`
	Note           *string `json:"note"`
}

// PATCH /admin/orders/:order_id
func UpdateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")

		var input UpdateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		query, arg := orderScope(orderID)
		var order models.Order
		err := db.Where(query, arg).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		updates := make(map[string]interface{})

		if input.Status != nil {
			newStatus, err := models.ParseOrderStatus(*input.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Writes must follow the transition table; an arbitrary status
			// cannot be stamped over the current one.
			if !order.Status.CanTransitionTo(newStatus) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "invalid status transition from " + string(order.Status) + " to " + string(newStatus),
				})
				return
			}
			updates["status"] = newStatus
			if newStatus == models.OrderStatusCancelled || newStatus == models.OrderStatusRefunded {
				updates["cancelled_at"] = time.Now()
			}
		}

		if input.PaymentStatus != nil {
			newPayment, err := models.ParsePaymentStatus(*input.PaymentStatus)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates["payment_status"] = newPayment
		}

		if input.TrackingNumber != nil {
			updates["tracking_number"] = *input.TrackingNumber
		}
		if input.CancelReason != nil {
			updates["cancel_reason"] = *input.CancelReason
		}

		// Terminal orders are frozen except for audit notes.
		if order.Status.Terminal() {
			if _, changesStatus := updates["status"]; changesStatus || input.TrackingNumber != nil ||
				input.PaymentStatus != nil || input.CancelReason != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "order is in a terminal state; only notes can be added",
				})
				return
			}
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&order).Updates(updates).Error; err != nil {
					return err
				}
			}
			if input.Note != nil && *input.Note != "" {
				return tx.Create(&models.OrderNote{OrderID: order.ID, Body: *input.Note}).Error
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}

		var updated models.Order
		if err := db.Preload("Items").Preload("Notes").First(&updated, order.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload order"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
