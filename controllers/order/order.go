package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/veloracart/ecommerce-api/models"
	"github.com/veloracart/ecommerce-api/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// How long checkout holds decremented stock for an unpaid order before
// the reservation sweep releases it.
const reservationTTL = 30 * time.Minute

type CheckoutInput struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card cod"`
}

func generateOrderNumber() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// orderScope matches a path parameter against either the numeric id or
// the order number. Comparing a non-numeric string against the integer
// id column would error in postgres, so the clause is chosen up front.
func orderScope(ref string) (query string, arg string) {
	if _, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return "id = ?", ref
	}
	return "order_number = ?", ref
}

// PlaceOrder converts the user's cart into a pending order in a single
// transaction. Stock is taken with a conditional decrement so two
// concurrent checkouts cannot oversell, item prices and names are
// snapshotted, and the cart is cleared.
func PlaceOrder(db *gorm.DB, userID string, paymentMethod string, shippingCents int64) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("cart is empty")
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	orderNumber := generateOrderNumber()
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var total int64
		var orderItems []models.OrderItem
		expiry := time.Now().Add(reservationTTL)

		for _, item := range cart.Items {
			// Atomic conditional decrement: the row change only happens
			// when enough stock remains, so concurrent checkouts race on
			// the database, not on a stale read.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for product: %s", item.Product.Name)
			}

			total += item.Product.PriceCents * int64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:  item.ProductID,
				Name:       item.Product.Name,
				PriceCents: item.Product.PriceCents,
				Quantity:   item.Quantity,
			})

			reservation := models.StockReservation{
				OrderNumber: orderNumber,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ExpiresAt:   expiry,
			}
			if err := tx.Create(&reservation).Error; err != nil {
				return err
			}
		}

		order = models.Order{
			OrderNumber:   orderNumber,
			UserID:        &userID,
			Items:         orderItems,
			TotalCents:    total + shippingCents,
			ShippingCents: shippingCents,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentPending,
			PaymentMethod: paymentMethod,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /user/checkout
func CheckoutHandler(db *gorm.DB, gw payment.Gateway, shippingCents int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := PlaceOrder(db, userID, input.PaymentMethod, shippingCents)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		broadcastNewOrder(*order)

		if input.PaymentMethod == "cod" {
			c.JSON(http.StatusCreated, gin.H{"order": order})
			return
		}

		var email string
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err == nil {
			email = user.Email
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		intent, err := gw.CreatePayment(ctx, payment.CreateRequest{
			OrderNumber: order.OrderNumber,
			AmountCents: order.TotalCents,
			Currency:    "USD",
			Description: fmt.Sprintf("Order %s", order.OrderNumber),
			Email:       email,
		})
		if err != nil {
			// The order stays pending; the reservation sweep releases its
			// stock if payment never arrives.
			c.JSON(http.StatusBadGateway, gin.H{"order": order, "error": err.Error()})
			return
		}

		if err := db.Model(order).Update("payment_ref", intent.Ref).Error; err != nil {
			// The webhook falls back to tran_cartid, but reconciliation by
			// ref needs this row, so the failure must be visible.
			zap.S().Errorw("failed to store payment ref",
				"order_number", order.OrderNumber, "payment_ref", intent.Ref, "err", err)
		}

		c.JSON(http.StatusCreated, gin.H{"order": order, "payment_url": intent.URL})
	}
}

// GET /user/orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:order_id
// A foreign order answers 404, never 403, so order ids cannot be probed.
func GetUserOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		orderID := c.Param("order_id")

		query, arg := orderScope(orderID)
		var order models.Order
		err := db.Where("user_id = ?", userID).Where(query, arg).
			Preload("Items").
			Preload("Notes").
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/:order_id
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")

		query, arg := orderScope(orderID)
		var order models.Order
		err := db.Where(query, arg).
			Preload("User").
			Preload("Items").
			Preload("Notes").
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
