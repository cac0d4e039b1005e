package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/config"
	productcontroller "github.com/gore3784/web-nesti/controllers/product"
	"github.com/gore3784/web-nesti/middleware"
)

// SetupCatalogRoutes registers categories and products. Reads are public;
// every mutation requires an admin bearer token.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	adminOnly := []gin.HandlerFunc{
		middleware.ValidateToken(cfg.JWTSecret),
		middleware.RequireAdmin(),
	}

	categories := r.Group("/categories")
	{
		categories.GET("", productcontroller.GetAllCategories(db))
		categories.GET("/:id", productcontroller.GetCategoryByID(db))
		categories.POST("", append(adminOnly, productcontroller.CreateCategory(db))...)
		categories.PUT("/:id", append(adminOnly, productcontroller.UpdateCategory(db))...)
		categories.DELETE("/:id", append(adminOnly, productcontroller.DeleteCategory(db))...)
	}

	bySlug := productcontroller.GetProductBySlug(db)

	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
		// gin cannot register the static "slug" segment next to the :id
		// wildcard, so /products/slug/:slug dispatches through the wildcard.
		products.GET("/:id/:slug", func(c *gin.Context) {
			if c.Param("id") == "slug" {
				bySlug(c)
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		})
		products.POST("", append(adminOnly, productcontroller.CreateProduct(db))...)
		products.PUT("/:id", append(adminOnly, productcontroller.UpdateProduct(db))...)
		products.DELETE("/:id", append(adminOnly, productcontroller.DeleteProduct(db))...)
		products.POST("/decrease-stock", append(adminOnly, productcontroller.DecreaseStock(db))...)
	}
}
