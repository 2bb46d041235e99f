package productcontroller

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/veloracart/ecommerce-api/models"
	"gorm.io/gorm"
)

type CollectionInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ProductIDs  string `json:"product_ids"` // comma-separated
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// collectionScope resolves a path parameter as either the numeric id or
// the slug. A slug compared against the integer id column would error.
func collectionScope(ref string) (query string, arg string) {
	if _, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return "id = ?", ref
	}
	return "slug = ?", ref
}

// GET /collections
func GetCollections(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var collections []models.Collection
		if err := db.Order("name").Find(&collections).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collections"})
			return
		}
		c.JSON(http.StatusOK, collections)
	}
}

// GET /collections/:id
func GetCollectionByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		query, arg := collectionScope(id)
		var collection models.Collection
		err := db.Preload("Products", "active = ?", true).
			Where(query, arg).
			First(&collection).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection"})
			return
		}
		c.JSON(http.StatusOK, collection)
	}
}

// POST /admin/collections
func CreateCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CollectionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		slug := input.Slug
		if slug == "" {
			slug = slugify(input.Name)
		}

		var products []models.Product
		if ids := parseIDList(input.ProductIDs); len(ids) > 0 {
			if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
				return
			}
		}

		collection := models.Collection{
			Name:        input.Name,
			Slug:        slug,
			Description: input.Description,
			Products:    products,
		}
		if err := db.Create(&collection).Error; err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Collection name or slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create collection"})
			return
		}

		c.JSON(http.StatusCreated, collection)
	}
}

type CollectionUpdateInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ProductIDs  *string `json:"product_ids"`
}

// PATCH /admin/collections/:id
func UpdateCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		query, arg := collectionScope(id)
		var collection models.Collection
		err := db.Where(query, arg).First(&collection).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection"})
			return
		}

		var input CollectionUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			collection.Name = *input.Name
		}
		if input.Slug != nil {
			collection.Slug = *input.Slug
		}
		if input.Description != nil {
			collection.Description = *input.Description
		}

		if input.ProductIDs != nil {
			var products []models.Product
			if ids := parseIDList(*input.ProductIDs); len(ids) > 0 {
				if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
					return
				}
			}
			if err := db.Model(&collection).Association("Products").Replace(products); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update collection products"})
				return
			}
		}

		if err := db.Save(&collection).Error; err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Collection name or slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update collection"})
			return
		}

		c.JSON(http.StatusOK, collection)
	}
}

// DELETE /admin/collections/:id
func DeleteCollection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result := db.Delete(&models.Collection{}, "id = ?", id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete collection"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Collection deleted"})
	}
}
