package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/guestcart"
)

// Guest cart handlers are thin wrappers over the guestcart store; all
// validation and overflow behavior lives there.

func guestID(c *gin.Context) (string, bool) {
	id := c.Query("guest_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
		return "", false
	}
	return id, true
}

// GET /guest/cart
func GetGuestCart(store *guestcart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := guestID(c)
		if !ok {
			return
		}
		items, err := store.Get(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guest cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /guest/cart/count
func GetGuestCartCount(store *guestcart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := guestID(c)
		if !ok {
			return
		}
		count, err := store.Count(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count guest cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// POST /guest/cart
func AddGuestCartItem(store *guestcart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := guestID(c)
		if !ok {
			return
		}
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		items, err := store.Add(id, input.ProductID, input.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// PUT /guest/cart/:product_id
func SetGuestCartQuantity(store *guestcart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := guestID(c)
		if !ok {
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}
		var input struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		items, err := store.SetQuantity(id, uint(productID), input.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// DELETE /guest/cart/:product_id
func RemoveGuestCartItem(store *guestcart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := guestID(c)
		if !ok {
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}
		items, err := store.Remove(id, uint(productID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// DELETE /guest/cart
func ClearGuestCart(store *guestcart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := guestID(c)
		if !ok {
			return
		}
		if err := store.Clear(id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear guest cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guest cart cleared"})
	}
}
