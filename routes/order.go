package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/config"
	orderControllers "github.com/gore3784/web-nesti/controllers/order"
	"github.com/gore3784/web-nesti/middleware"
)

// SetupOrderRoutes registers the user-scoped order endpoints.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		orders.POST("", orderControllers.CreateOrder(db))
		orders.GET("", orderControllers.GetUserOrders(db))
		orders.GET("/:id", orderControllers.GetOrderByID(db))
	}
}
