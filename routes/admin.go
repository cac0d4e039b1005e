package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/config"
	adminController "github.com/gore3784/web-nesti/controllers/admin"
	orderControllers "github.com/gore3784/web-nesti/controllers/order"
	productcontroller "github.com/gore3784/web-nesti/controllers/product"
	userControllers "github.com/gore3784/web-nesti/controllers/user"
	"github.com/gore3784/web-nesti/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a bearer
// token with the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireAdmin())
	{
		adminGroup.GET("/dashboard", adminController.Dashboard(db))
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		adminGroup.GET("/orders", orderControllers.AdminGetAllOrders(db))
		adminGroup.GET("/orders/:id", orderControllers.AdminGetOrder(db))
		adminGroup.PUT("/orders/:id/status", orderControllers.AdminUpdateOrderStatus(db))

		adminGroup.GET("/products/export-excel", productcontroller.ExportProductsToExcel(db))
	}
}
