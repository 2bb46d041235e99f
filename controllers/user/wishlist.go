package userControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

func getOrCreateWishlist(db *gorm.DB, userID string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := db.Where("user_id = ?", userID).First(&wishlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wishlist = models.Wishlist{UserID: userID}
		err = db.Create(&wishlist).Error
	}
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// GET /user/wishlist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		wishlist, err := getOrCreateWishlist(db, userID.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		if err := db.Preload("Items.Product").First(wishlist, wishlist.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, wishlist)
	}
}

type WishlistAddInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// POST /user/wishlist
func AddWishlistItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var input WishlistAddInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		wishlist, err := getOrCreateWishlist(db, userID.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		item := models.WishlistItem{
			WishlistID: wishlist.ID,
			ProductID:  input.ProductID,
			AddedAt:    time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			// Adding the same product twice is a no-op.
			var existing models.WishlistItem
			if db.Where("wishlist_id = ? AND product_id = ?", wishlist.ID, input.ProductID).
				First(&existing).Error == nil {
				c.JSON(http.StatusOK, existing)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add wishlist item"})
			return
		}

		item.Product = product
		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /user/wishlist/:productId
func RemoveWishlistItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		wishlist, err := getOrCreateWishlist(db, userID.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}

		result := db.Where("wishlist_id = ? AND product_id = ?", wishlist.ID, productID).
			Delete(&models.WishlistItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove wishlist item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist item removed"})
	}
}
