package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// GET /admin/products/export-excel
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := []models.Product{}
		if err := db.Preload("Categories").Order("id asc").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range productColumns {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Type)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.SellerID)
			row.AddCell().SetValue(strings.Join(p.Images, ","))

			catIDs := make([]string, 0, len(p.Categories))
			for _, cat := range p.Categories {
				catIDs = append(catIDs, strconv.FormatUint(uint64(cat.ID), 10))
			}
			row.AddCell().SetValue(strings.Join(catIDs, ","))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
