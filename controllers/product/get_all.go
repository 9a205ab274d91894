package productcontroller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// sortColumns maps the sort_by query value onto a column.
var sortColumns = map[string]string{
	"created_at": "products.created_at",
	"price":      "products.price",
	"name":       "products.name",
}

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Preload("Categories")
		query, ok := applyFilters(c, query)
		if !ok {
			return
		}

		products := []models.Product{}
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// applyFilters reads search, type, category and price filters plus sorting.
// It answers the request itself and returns false on a bad parameter.
func applyFilters(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
	}

	if typ := c.Query("type"); typ != "" {
		if !models.ValidProductType(typ) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
			return nil, false
		}
		query = query.Where("products.type = ?", typ)
	}

	for param, op := range map[string]string{"min_price": ">=", "max_price": "<="} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
			return nil, false
		}
		query = query.Where("products.price "+op+" ?", v)
	}

	if categoryID := c.Query("category_id"); categoryID != "" {
		cid, err := strconv.ParseUint(categoryID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return nil, false
		}
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", uint(cid))
	}

	column, ok := sortColumns[c.DefaultQuery("sort_by", "created_at")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_by"})
		return nil, false
	}
	order := strings.ToLower(c.DefaultQuery("order", "desc"))
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", column, order)).Order("products.id"), true
}
