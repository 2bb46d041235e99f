package models

import "time"

// Wishlist is created on first access; one per user.
type Wishlist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}

type WishlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WishlistID uint      `gorm:"index;uniqueIndex:idx_wishlist_product" json:"-"`
	ProductID  uint      `gorm:"uniqueIndex:idx_wishlist_product" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID" json:"product"`
	AddedAt    time.Time `json:"added_at"`
}
