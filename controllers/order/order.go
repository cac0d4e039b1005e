package orderControllers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/middleware"
	"github.com/gore3784/web-nesti/models"
)

// -------- Request Structs --------

type ShippingAddressInput struct {
	FullName   string `json:"full_name" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"required,max=20"`
	Address    string `json:"address" binding:"required,max=255"`
	City       string `json:"city" binding:"required,max=100"`
	Province   string `json:"province" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=10"`
}

type OrderItemInput struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressInput `json:"shipping_address" binding:"required"`
	Items           []OrderItemInput     `json:"items" binding:"required,min=1,dive"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var ErrUnknownProduct = errors.New("order references an unknown product")

// -------- Helpers --------

// GenerateOrderNumber builds the human-facing unique order reference, e.g.
// ORDER-1753171200123456789-4821. The timestamp is nanosecond precision so
// concurrent checkouts do not collide; the unique index is the backstop.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORDER-%d-%d", time.Now().UnixNano(), 1000+rand.Intn(9000))
}

// swappable in tests
var newOrderNumber = GenerateOrderNumber

func validateProductsExist(tx *gorm.DB, productIDs []uint) error {
	distinct := make(map[uint]struct{}, len(productIDs))
	for _, id := range productIDs {
		distinct[id] = struct{}{}
	}
	ids := make([]uint, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}

	var count int64
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrUnknownProduct
	}
	return nil
}

// CreatePendingOrder persists shipping address, order, and items as one unit
// inside the caller's transaction. The order starts as pending/pending with a
// freshly generated order number; item prices are the captured unit prices.
func CreatePendingOrder(tx *gorm.DB, userID *uint, addr ShippingAddressInput, items []models.OrderItem, total decimal.Decimal) (*models.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	if err := validateProductsExist(tx, productIDs); err != nil {
		return nil, err
	}

	shipping := models.ShippingAddress{
		UserID:     userID,
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Address:    addr.Address,
		City:       addr.City,
		Province:   addr.Province,
		PostalCode: addr.PostalCode,
	}
	if err := tx.Create(&shipping).Error; err != nil {
		return nil, err
	}

	// Regenerate on the rare collision; the unique index catches the rest.
	orderNumber := newOrderNumber()
	for i := 0; i < 3; i++ {
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}
		orderNumber = newOrderNumber()
	}

	for attempt := 0; ; attempt++ {
		order := models.Order{
			UserID:            userID,
			ShippingAddressID: shipping.ID,
			TotalAmount:       total,
			Status:            models.OrderStatusPending,
			PaymentStatus:     models.PaymentStatusPending,
			OrderNumber:       orderNumber,
			Items:             items,
		}
		// Savepoint per attempt so a unique-index conflict does not poison
		// the enclosing transaction.
		err := tx.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&order).Error
		})
		if err == nil {
			return &order, nil
		}
		// A concurrent checkout can claim the same number between the count
		// check and the insert.
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 2 {
			return nil, err
		}
		orderNumber = newOrderNumber()
	}
}

func withOrderAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items.Product").
		Preload("ShippingAddress").
		Preload("StatusHistories", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		})
}

// -------- Handlers --------

// CreateOrder persists a checkout submission atomically.
// POST /orders
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.TotalAmount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Total amount must not be negative"})
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, in := range req.Items {
			if in.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Item price must not be negative"})
				return
			}
			items = append(items, models.OrderItem{
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Price:     in.Price,
			})
		}

		var order *models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			order, txErr = CreatePendingOrder(tx, &userID, req.ShippingAddress, items, req.TotalAmount)
			return txErr
		})
		if err != nil {
			if errors.Is(err, ErrUnknownProduct) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":      "Order created successfully",
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
		})
	}
}

// GetUserOrders lists the caller's orders, newest first.
// GET /orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var orders []models.Order
		if err := withOrderAssociations(db).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByID returns one order for its owner or an admin; anyone else gets
// a 403 rather than a 404 so access denial is consistent.
// GET /orders/:id
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var order models.Order
		if err := withOrderAssociations(db).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}

		userID, _ := middleware.CurrentUserID(c)
		isOwner := order.UserID != nil && *order.UserID == userID
		if !isOwner && !middleware.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// AdminGetAllOrders lists every order with items, address, and history.
// GET /admin/orders
func AdminGetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := withOrderAssociations(db).
			Preload("User").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// AdminGetOrder returns any order by id.
// GET /admin/orders/:id
func AdminGetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var order models.Order
		if err := withOrderAssociations(db).Preload("User").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// AdminUpdateOrderStatus moves an order to any status in the enum and appends
// exactly one history row, in the same transaction. Transitions are
// deliberately unrestricted so operators can correct mistakes.
// PUT /admin/orders/:id/status
func AdminUpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
				return err
			}
			history := models.OrderStatusHistory{
				OrderID:   order.ID,
				Status:    newStatus,
				ChangedAt: time.Now(),
			}
			return tx.Create(&history).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}

		var histories []models.OrderStatusHistory
		if err := db.Where("order_id = ?", order.ID).Order("changed_at ASC").Find(&histories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":          "Order status updated successfully",
			"order_id":         order.ID,
			"status":           newStatus,
			"status_histories": histories,
		})
	}
}
