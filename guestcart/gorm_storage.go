package guestcart

import (
	"errors"

	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

// GormStorage persists guest cart lists as rows keyed by guest ID. It
// reports ErrStoreFull when a list would exceed the row quota, which
// triggers the store's overflow fallback.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (g *GormStorage) Load(guestID string) ([]Item, error) {
	var cart models.GuestCart
	err := g.db.Preload("Items").Where("guest_id = ?", guestID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(cart.Items))
	for _, row := range cart.Items {
		items = append(items, Item{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			AddedAt:   row.AddedAt,
		})
	}
	return items, nil
}

func (g *GormStorage) Save(guestID string, items []Item) error {
	if len(items) > MaxEntries {
		return ErrStoreFull
	}
	return g.db.Transaction(func(tx *gorm.DB) error {
		var cart models.GuestCart
		err := tx.Where("guest_id = ?", guestID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.GuestCart{GuestID: guestID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			return err
		}
		for _, it := range items {
			row := models.GuestCartItem{
				CartID:    cart.CartID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				AddedAt:   it.AddedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *GormStorage) Clear(guestID string) error {
	var cart models.GuestCart
	err := g.db.Where("guest_id = ?", guestID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := g.db.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{}).Error; err != nil {
		return err
	}
	return g.db.Delete(&cart).Error
}
