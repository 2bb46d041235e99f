package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting payment
	OrderStatusPaid       OrderStatus = "paid"       // payment captured
	OrderStatusConfirmed  OrderStatus = "confirmed"  // confirmed by the shop
	OrderStatusProcessing OrderStatus = "processing" // being packed
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// nextStatuses is the forward edge of the order lifecycle. Cancelled and
// refunded are additionally reachable from every non-terminal status.
var nextStatuses = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusPaid,
	OrderStatusPaid:       OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// Terminal reports whether no further status transition is expected.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s. Writes that
// are not reachable must be rejected rather than stored.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled || next == OrderStatusRefunded {
		return true
	}
	return nextStatuses[s] == next
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusConfirmed,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRefunded:
		return s, nil
	}
	return "", ErrInvalidOrderStatus
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return s, nil
	}
	return "", ErrInvalidPaymentStatus
}

type Order struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderNumber    string        `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID         *string       `gorm:"index" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestEmail     string        `json:"guest_email,omitempty"`
	Items          []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Notes          []OrderNote   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`
	TotalCents     int64         `json:"total_cents"`
	ShippingCents  int64         `json:"shipping_cents"`
	Status         OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod  string        `json:"payment_method"`
	PaymentRef     string        `gorm:"index" json:"payment_ref,omitempty"`
	TrackingNumber string        `json:"tracking_number,omitempty"`
	CancelReason   string        `json:"cancel_reason,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// OrderItem is a snapshot of the product at purchase time. Later product
// edits must not change historical orders.
type OrderItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OrderID    uint   `gorm:"index" json:"-"`
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// OrderNote is an append-only audit entry. Notes may be added in any
// status, including terminal ones.
type OrderNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index" json:"-"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
