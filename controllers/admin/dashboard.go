package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/models"
)

const lowStockThreshold = 10

// Dashboard aggregates the back-office landing numbers: catalog size, low
// stock, order volume, revenue, and the freshest activity.
// GET /admin/dashboard
func Dashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalProducts int64
		if err := db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}

		var lowStockProducts int64
		if err := db.Model(&models.Product{}).
			Where("stock < ?", lowStockThreshold).
			Count(&lowStockProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count low-stock products"})
			return
		}

		var totalOrders int64
		if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
			return
		}

		var totalRevenue decimal.Decimal
		row := db.Model(&models.Order{}).
			Select("COALESCE(SUM(total_amount), 0)").
			Row()
		if err := row.Scan(&totalRevenue); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum revenue"})
			return
		}

		var recentOrders []models.Order
		if err := db.Preload("User").
			Order("created_at DESC").
			Limit(3).
			Find(&recentOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
			return
		}

		var lowStockList []models.Product
		if err := db.Where("stock < ?", lowStockThreshold).
			Limit(3).
			Find(&lowStockList).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low-stock products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_products":     totalProducts,
			"low_stock_products": lowStockProducts,
			"total_orders":       totalOrders,
			"total_revenue":      totalRevenue,
			"recent_orders":      recentOrders,
			"low_stock_list":     lowStockList,
		})
	}
}
