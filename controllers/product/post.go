package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

var unsafeFileChars = regexp.MustCompile(`[^\w\-.]`)

// saveImage stores an optional "image" upload under uploadsDir/products and
// returns its public path, or "" when no file was sent.
func saveImage(c *gin.Context, uploadsDir string) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	dir := filepath.Join(uploadsDir, "products")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(),
		unsafeFileChars.ReplaceAllString(base, "_"), unsafeFileChars.ReplaceAllString(ext, ""))

	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return "/uploads/products/" + filename, nil
}

// parseCategoryIDs reads a comma separated id list.
func parseCategoryIDs(raw string) ([]uint, error) {
	var ids []uint
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q", tok)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// POST /seller/products
// Multipart form: name, price required; description, type, stock,
// category_ids, image optional.
func CreateProduct(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		productType := c.DefaultPostForm("type", models.ProductTypeProduct)
		if !models.ValidProductType(productType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
			return
		}

		stock := 0
		if s := c.PostForm("stock"); s != "" {
			if stock, err = strconv.Atoi(s); err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		ids, err := parseCategoryIDs(c.PostForm("category_ids"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
			return
		}
		var categories []models.Category
		if len(ids) > 0 {
			if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
		}

		imageURL, err := saveImage(c, uploadsDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var images []string
		if imageURL != "" {
			images = []string{imageURL}
		}

		product := models.Product{
			Name:        name,
			Description: c.PostForm("description"),
			Price:       price,
			Type:        productType,
			Stock:       stock,
			Images:      images,
			SellerID:    c.GetString(auth.CtxUserID),
			Categories:  categories,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
