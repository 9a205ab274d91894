package pageControllers

import (
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ManishKrBarman/LokRise-sub002/web"
)

const contentTypeHTML = "text/html; charset=utf-8"

func render(c *gin.Context, status int, name string) {
	page, err := fs.ReadFile(web.Pages, "pages/"+name)
	if err != nil {
		log.Printf("❌ page %s missing: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Page unavailable"})
		return
	}
	c.Data(status, contentTypeHTML, page)
}

// Page serves one embedded HTML file.
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, name)
	}
}

// NotFound answers browsers with the 404 page and API clients with JSON.
func NotFound(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		render(c, http.StatusNotFound, "404.html")
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
