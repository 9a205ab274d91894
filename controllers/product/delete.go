package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DELETE /seller/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := findOwnedProduct(c, db)
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			// clear category links in the join table
			if err := tx.Model(product).Association("Categories").Clear(); err != nil {
				return err
			}
			return tx.Delete(product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
