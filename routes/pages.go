package routes

import (
	"github.com/gin-gonic/gin"

	pageControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/pages"
)

// SetupPageRoutes serves the embedded HTML pages.
func SetupPageRoutes(r *gin.Engine) {
	r.GET("/", pageControllers.Page("index.html"))
	r.GET("/login", pageControllers.Page("login.html"))
	r.GET("/register", pageControllers.Page("register.html"))
	r.GET("/about", pageControllers.Page("about.html"))
	r.NoRoute(pageControllers.NotFound)
}
