package productcontroller

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// Column order shared by export and import.
var productColumns = []string{
	"ID", "Name", "Description", "Price", "Type", "Stock", "SellerID", "Images", "CategoryIDs",
}

type importResult struct {
	Created int
	Updated int
	Skipped int
}

// POST /admin/products/import-excel
// Rows with an existing ID update that product, everything else is created.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		var res importResult
		for _, row := range xlFile.Sheets[0].Rows[1:] {
			if row == nil {
				res.Skipped++
				continue
			}
			get := func(i int) string {
				if i < len(row.Cells) {
					return strings.TrimSpace(row.Cells[i].String())
				}
				return ""
			}

			name := get(1)
			price, err := strconv.ParseFloat(get(3), 64)
			if name == "" || err != nil || price < 0 {
				res.Skipped++
				continue
			}
			productType := get(4)
			if productType == "" {
				productType = models.ProductTypeProduct
			}
			if !models.ValidProductType(productType) {
				res.Skipped++
				continue
			}
			stock, _ := strconv.Atoi(get(5))

			var images []string
			for _, img := range strings.Split(get(7), ",") {
				if img = strings.TrimSpace(img); img != "" {
					images = append(images, img)
				}
			}

			ids, err := parseCategoryIDs(get(8))
			if err != nil {
				res.Skipped++
				continue
			}
			var categories []models.Category
			if len(ids) > 0 {
				if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
					log.Printf("❌ category lookup failed for import row: %v", err)
					res.Skipped++
					continue
				}
			}

			product := models.Product{
				Name:        name,
				Description: get(2),
				Price:       price,
				Type:        productType,
				Stock:       stock,
				SellerID:    get(6),
				Images:      images,
			}

			if id, err := strconv.ParseUint(get(0), 10, 64); err == nil {
				var existing models.Product
				if db.First(&existing, id).Error == nil {
					product.ID = existing.ID
					product.CreatedAt = existing.CreatedAt
					err := db.Transaction(func(tx *gorm.DB) error {
						if err := tx.Omit("Categories").Save(&product).Error; err != nil {
							return err
						}
						if len(categories) == 0 {
							return tx.Model(&product).Association("Categories").Clear()
						}
						return tx.Model(&product).Association("Categories").Replace(categories)
					})
					if err != nil {
						res.Skipped++
					} else {
						res.Updated++
					}
					continue
				}
			}

			product.Categories = categories
			if err := db.Create(&product).Error; err != nil {
				res.Skipped++
				continue
			}
			res.Created++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": res.Created,
			"updated_count": res.Updated,
			"skipped_count": res.Skipped,
		})
	}
}
