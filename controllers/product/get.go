package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// loadProduct reads :id and loads the product with its categories, answering
// the request itself when it cannot.
func loadProduct(c *gin.Context, db *gorm.DB) (*models.Product, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return nil, false
	}

	var product models.Product
	if err := db.Preload("Categories").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		}
		return nil, false
	}
	return &product, true
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if product, ok := loadProduct(c, db); ok {
			c.JSON(http.StatusOK, product)
		}
	}
}

// GET /seller/products
func GetSellerProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := []models.Product{}
		if err := db.Preload("Categories").
			Where("seller_id = ?", c.GetString(auth.CtxUserID)).
			Order("created_at desc").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /seller/products/:id
func GetSellerProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if product, ok := findOwnedProduct(c, db); ok {
			c.JSON(http.StatusOK, product)
		}
	}
}
