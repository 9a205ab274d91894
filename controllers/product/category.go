package productcontroller

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// GET /categories
// ?with_products=true preloads each category's products.
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("name asc")
		if c.Query("with_products") == "true" {
			query = query.Preload("Products")
		}

		categories := []models.Category{}
		if err := query.Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /categories/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Preload("Products").First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// POST /admin/categories
// Form or JSON with a name; a multipart "image" is stored under
// uploadsDir/categories.
func CreateCategory(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name  string `json:"name" form:"name" binding:"required"`
			Image string `json:"image" form:"image"`
		}
		if err := c.ShouldBind(&input); err != nil || strings.TrimSpace(input.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category := models.Category{Name: strings.TrimSpace(input.Name), Image: input.Image}

		if file, err := c.FormFile("image"); err == nil {
			dir := filepath.Join(uploadsDir, "categories")
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload folder"})
				return
			}
			filename := unsafeFileChars.ReplaceAllString(filepath.Base(file.Filename), "_")
			if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
			category.Image = "/uploads/categories/" + filename
		}

		var existing models.Category
		err := db.Where("name = ?", category.Name).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&category).Association("Products").Clear(); err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
