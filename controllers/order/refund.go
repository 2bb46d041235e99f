package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"github.com/veloracart/ecommerce-api/payment"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrAlreadyRefunded     = errors.New("order already refunded")
)

// GatewayError marks a refund that failed at the payment gateway after
// preconditions passed. The order has been flipped to cancelled for
// manual processing when this is returned.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "gateway refund failed: " + e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }

// ExecuteRefund applies the refund state machine to the order in memory
// and returns the audit note to append. Two outcomes mutate the order:
// gateway success moves it to refunded, gateway failure moves it to
// cancelled with a manual-processing flag so it is never silently stuck
// as paid-but-not-refunded. Precondition failures leave it untouched.
func ExecuteRefund(ctx context.Context, gw payment.Gateway, order *models.Order, now time.Time) (string, error) {
	// A refunded order no longer reads as paid, so this check must come
	// before the payment precondition to report the right rejection.
	if order.Status == models.OrderStatusRefunded || order.PaymentStatus == models.PaymentRefunded {
		return "", ErrAlreadyRefunded
	}
	if order.PaymentStatus != models.PaymentPaid {
		return "", ErrPaymentNotConfirmed
	}

	if err := gw.Refund(ctx, order.PaymentRef, order.TotalCents); err != nil {
		order.Status = models.OrderStatusCancelled
		order.CancelReason = "refund failed, manual processing required"
		order.CancelledAt = &now
		return "Gateway refund failed, flagged for manual processing: " + err.Error(),
			&GatewayError{Err: err}
	}

	order.Status = models.OrderStatusRefunded
	order.PaymentStatus = models.PaymentRefunded
	order.CancelledAt = &now
	return "Refund issued for the full order total", nil
}

// POST /admin/orders/:order_id/refund
func RefundOrder(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")

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

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		note, refundErr := ExecuteRefund(ctx, gw, &order, time.Now())

		switch {
		case errors.Is(refundErr, ErrPaymentNotConfirmed), errors.Is(refundErr, ErrAlreadyRefunded):
			c.JSON(http.StatusBadRequest, gin.H{"error": refundErr.Error()})
			return
		case refundErr == nil, isGatewayError(refundErr):
			if err := persistRefundOutcome(db, &order, note); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save refund outcome"})
				return
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Refund failed"})
			return
		}

		if refundErr != nil {
			c.JSON(http.StatusBadGateway, gin.H{"order": order, "error": refundErr.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

func isGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

func persistRefundOutcome(db *gorm.DB, order *models.Order, note string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"cancel_reason":  order.CancelReason,
			"cancelled_at":   order.CancelledAt,
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderNote{OrderID: order.ID, Body: note}).Error
	})
}
