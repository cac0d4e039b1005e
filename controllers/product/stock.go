package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gore3784/web-nesti/models"
)

type StockItem struct {
	ID       uint `json:"id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type DecreaseStockRequest struct {
	Items []StockItem `json:"items" binding:"required,min=1,dive"`
}

// DecreaseStock is an admin inventory adjustment. Stock is clamped at zero and
// unknown product ids are skipped silently. The checkout flow does not call
// this: paid orders decrement stock inside the payment callback transaction.
// POST /products/decrease-stock (admin)
func DecreaseStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DecreaseStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range req.Items {
				if err := DecrementProductStock(tx, item.ID, item.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
	}
}

// DecrementProductStock locks the product row and subtracts quantity, never
// going below zero. Unknown ids are a no-op.
func DecrementProductStock(tx *gorm.DB, productID uint, quantity int) error {
	q := tx
	// SQLite has no SELECT ... FOR UPDATE; writes there serialize on the
	// database lock instead.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	err := q.First(&product, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	newStock := product.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}
	return tx.Model(&product).Update("stock", newStock).Error
}
