package paymentControllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	orderControllers "github.com/gore3784/web-nesti/controllers/order"
	"github.com/gore3784/web-nesti/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	category := models.Category{Name: "Kopi", Slug: "kopi"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       "Kopi Arabika",
		Slug:       "kopi-arabika",
		CategoryID: category.ID,
		Price:      decimal.NewFromInt(75000),
		Stock:      stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedPendingOrder(t *testing.T, db *gorm.DB, product models.Product, quantity int) models.Order {
	t.Helper()
	userID := uint(1)
	addr := orderControllers.ShippingAddressInput{
		FullName:   "Ani",
		Phone:      "0812",
		Address:    "Jl. Mawar 1",
		City:       "Bandung",
		Province:   "Jawa Barat",
		PostalCode: "40111",
	}
	items := []models.OrderItem{{
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     product.Price,
	}}
	total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	var order *models.Order
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = orderControllers.CreatePendingOrder(tx, &userID, addr, items, total)
		return err
	}))
	return *order
}

func callbackRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/payments/midtrans/callback", Callback(db))
	return r
}

func notify(r *gin.Engine, orderNumber, transactionStatus, fraudStatus string) *httptest.ResponseRecorder {
	body := fmt.Sprintf(
		`{"order_id":%q,"transaction_status":%q,"fraud_status":%q,"transaction_id":"trx-1","status_code":"200","gross_amount":"150000.00"}`,
		orderNumber, transactionStatus, fraudStatus,
	)
	req := httptest.NewRequest(http.MethodPost, "/payments/midtrans/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMapStatuses(t *testing.T) {
	cases := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		wantPayment       models.PaymentStatus
		wantOrder         models.OrderStatus
	}{
		{"capture accepted", "capture", "accept", models.PaymentStatusPaid, models.OrderStatusPaid},
		{"capture challenged", "capture", "challenge", models.PaymentStatusChallenge, models.OrderStatusPending},
		{"settlement", "settlement", "", models.PaymentStatusPaid, models.OrderStatusPaid},
		{"pending", "pending", "", models.PaymentStatusPending, models.OrderStatusPending},
		{"deny", "deny", "", models.PaymentStatusDenied, models.OrderStatusCancelled},
		{"expire", "expire", "", models.PaymentStatusExpired, models.OrderStatusCancelled},
		{"cancel", "cancel", "", models.PaymentStatusCancelled, models.OrderStatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payment, order := MapStatuses(tc.transactionStatus, tc.fraudStatus, models.PaymentStatusPending, models.OrderStatusPending)
			assert.Equal(t, tc.wantPayment, payment)
			assert.Equal(t, tc.wantOrder, order)
		})
	}
}

func TestMapStatusesUnrecognizedKeepsCurrent(t *testing.T) {
	payment, order := MapStatuses("refund", "", models.PaymentStatusPaid, models.OrderStatusShipped)
	assert.Equal(t, models.PaymentStatusPaid, payment)
	assert.Equal(t, models.OrderStatusShipped, order)
}

func TestCallbackSettlementMarksPaidAndDecrementsStock(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, 10)
	order := seedPendingOrder(t, db, product, 3)
	r := callbackRouter(db)

	w := notify(r, order.OrderNumber, "settlement", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.Where("order_number = ?", order.OrderNumber).First(&reloaded).Error)
	assert.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)
	assert.Equal(t, models.OrderStatusPaid, reloaded.Status)
	assert.Equal(t, "trx-1", reloaded.TransactionID)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, product.ID).Error)
	assert.Equal(t, 7, stocked.Stock)
}

func TestCallbackDuplicateDeliveryDecrementsOnce(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, 10)
	order := seedPendingOrder(t, db, product, 3)
	r := callbackRouter(db)

	require.Equal(t, http.StatusOK, notify(r, order.OrderNumber, "settlement", "").Code)
	require.Equal(t, http.StatusOK, notify(r, order.OrderNumber, "settlement", "").Code)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, product.ID).Error)
	assert.Equal(t, 7, stocked.Stock)
}

func TestCallbackChallengeDoesNotTouchStock(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, 10)
	order := seedPendingOrder(t, db, product, 3)
	r := callbackRouter(db)

	w := notify(r, order.OrderNumber, "capture", "challenge")
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.Where("order_number = ?", order.OrderNumber).First(&reloaded).Error)
	assert.Equal(t, models.PaymentStatusChallenge, reloaded.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, product.ID).Error)
	assert.Equal(t, 10, stocked.Stock)
}

func TestCallbackExpireCancelsOrder(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, 10)
	order := seedPendingOrder(t, db, product, 3)
	r := callbackRouter(db)

	w := notify(r, order.OrderNumber, "expire", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.Where("order_number = ?", order.OrderNumber).First(&reloaded).Error)
	assert.Equal(t, models.PaymentStatusExpired, reloaded.PaymentStatus)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
}

func TestCallbackUnknownOrderIs404(t *testing.T) {
	db := setupDB(t)
	r := callbackRouter(db)

	w := notify(r, "ORDER-0-0000", "settlement", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallbackUnrecognizedStatusLeavesOrderUntouched(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, 10)
	order := seedPendingOrder(t, db, product, 3)
	r := callbackRouter(db)

	w := notify(r, order.OrderNumber, "refund", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.Where("order_number = ?", order.OrderNumber).First(&reloaded).Error)
	assert.Equal(t, models.PaymentStatusPending, reloaded.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, product.ID).Error)
	assert.Equal(t, 10, stocked.Stock)
}

func TestCallbackStockClampsAtZero(t *testing.T) {
	db := setupDB(t)
	product := seedProduct(t, db, 2)
	order := seedPendingOrder(t, db, product, 5)
	r := callbackRouter(db)

	w := notify(r, order.OrderNumber, "settlement", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, product.ID).Error)
	assert.Equal(t, 0, stocked.Stock)
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	db := setupDB(t)
	r := callbackRouter(db)

	req := httptest.NewRequest(http.MethodPost, "/payments/midtrans/callback", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
