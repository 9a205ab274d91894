package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// findOwnedProduct loads a product the calling seller owns. Admin tokens may
// touch any product.
func findOwnedProduct(c *gin.Context, db *gorm.DB) (*models.Product, bool) {
	product, ok := loadProduct(c, db)
	if !ok {
		return nil, false
	}

	if c.GetString(auth.CtxRole) != string(models.AccountAdmin) && product.SellerID != c.GetString(auth.CtxUserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your product"})
		return nil, false
	}
	return product, true
}

// PUT /seller/products/:id
// Accepts the same fields as CreateProduct; absent fields are kept.
func UpdateProduct(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := findOwnedProduct(c, db)
		if !ok {
			return
		}

		if v := c.PostForm("name"); v != "" {
			product.Name = v
		}
		if v := c.PostForm("description"); v != "" {
			product.Description = v
		}
		if v := c.PostForm("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			product.Price = price
		}
		if v := c.PostForm("stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			product.Stock = stock
		}
		if v := c.PostForm("type"); v != "" {
			if !models.ValidProductType(v) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
				return
			}
			product.Type = v
		}

		if raw := c.PostForm("category_ids"); raw != "" {
			ids, err := parseCategoryIDs(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
				return
			}
			var categories []models.Category
			if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
			if err := db.Model(product).Association("Categories").Replace(categories); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update categories"})
				return
			}
			product.Categories = categories
		}

		imageURL, err := saveImage(c, uploadsDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if imageURL != "" {
			product.Images = append([]string{imageURL}, product.Images...)
		}

		if err := db.Omit("Categories").Save(product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
