package productcontroller

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"` // major currency units
	Stock       int     `json:"stock" binding:"min=0"`
	Active      *bool   `json:"active"`
	Image       string  `json:"image"`
	CategoryIDs string  `json:"category_ids"` // comma-separated
}

// toCents converts a major-unit price to stored minor units.
func toCents(major float64) int64 {
	return int64(math.Round(major * 100))
}

func parseIDList(raw string) []uint {
	var ids []uint
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if id64, err := strconv.ParseUint(tok, 10, 64); err == nil {
			ids = append(ids, uint(id64))
		}
	}
	return ids
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var categories []models.Category
		if ids := parseIDList(input.CategoryIDs); len(ids) > 0 {
			if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
		}

		active := true
		if input.Active != nil {
			active = *input.Active
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			PriceCents:  toCents(input.Price),
			Stock:       input.Stock,
			Active:      active,
			Image:       input.Image,
			Categories:  categories,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
