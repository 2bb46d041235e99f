package auth

import (
	"errors"
	"time"

	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

// MergeGuestCart moves a guest cart into the user's cart, merging
// duplicate products by summing quantities. The whole merge runs in one
// transaction: either every item lands and the guest cart is deleted, or
// nothing changes and a later login retries the full contents. That keeps
// a retried migration from double-counting items.
func MergeGuestCart(db *gorm.DB, guestID, userID string) (bool, error) {
	merged := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var guestCart models.GuestCart
		err := tx.Preload("Items").Where("guest_id = ?", guestID).First(&guestCart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to merge
		}
		if err != nil {
			return err
		}
		if len(guestCart.Items) == 0 {
			return tx.Delete(&guestCart).Error
		}

		var userCart models.Cart
		err = tx.Where("user_id = ?", userID).First(&userCart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			userCart = models.Cart{UserID: userID}
			if err := tx.Create(&userCart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, guestItem := range guestCart.Items {
			var userItem models.CartItem
			lookupErr := tx.Where("cart_id = ? AND product_id = ?", userCart.CartID, guestItem.ProductID).
				First(&userItem).Error

			switch {
			case lookupErr == nil:
				userItem.Quantity += guestItem.Quantity
				userItem.AddedAt = time.Now()
				if err := tx.Save(&userItem).Error; err != nil {
					return err
				}
			case errors.Is(lookupErr, gorm.ErrRecordNotFound):
				newItem := models.CartItem{
					CartID:    userCart.CartID,
					ProductID: guestItem.ProductID,
					Quantity:  guestItem.Quantity,
					AddedAt:   time.Now(),
				}
				if err := tx.Create(&newItem).Error; err != nil {
					return err
				}
			default:
				return lookupErr
			}
		}

		if err := tx.Where("cart_id = ?", guestCart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&guestCart).Error; err != nil {
			return err
		}

		merged = true
		return nil
	})
	return merged, err
}
