package models

import "time"

// StockReservation records a stock decrement made at checkout for an order
// that has not been paid yet. Expired reservations are released by the
// maintenance endpoint and the scheduled sweep.
type StockReservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"index;not null" json:"order_number"`
	ProductID   uint      `gorm:"index;not null" json:"product_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}
