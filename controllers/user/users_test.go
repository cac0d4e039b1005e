package userControllers

import (
	"encoding/json"
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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ShippingAddress{},
		&models.Order{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Email:    email,
		Password: string(hashed),
		FullName: "Ani",
		Role:     models.RoleCustomer,
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", "customer")
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "ani@example.com", "secret123")

	r := gin.New()
	r.PUT("/profile", asUser(user.ID), UpdateProfile(db))

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"full_name":"Ani Baru","phone":"0813"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Ani Baru", reloaded.FullName)
	assert.Equal(t, "0813", reloaded.Phone)
}

func TestUpdatePassword(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "ani@example.com", "secret123")

	r := gin.New()
	r.PUT("/profile/password", asUser(user.ID), UpdatePassword(db))

	req := httptest.NewRequest(http.MethodPut, "/profile/password",
		strings.NewReader(`{"current_password":"secret123","new_password":"rahasia-baru"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("rahasia-baru")))
}

func TestUpdatePasswordRejectsWrongCurrent(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "ani@example.com", "secret123")

	r := gin.New()
	r.PUT("/profile/password", asUser(user.ID), UpdatePassword(db))

	req := httptest.NewRequest(http.MethodPut, "/profile/password",
		strings.NewReader(`{"current_password":"wrong","new_password":"rahasia-baru"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllUsersAggregatesOrders(t *testing.T) {
	db := setupDB(t)
	buyer := seedUser(t, db, "ani@example.com", "secret123")
	seedUser(t, db, "budi@example.com", "secret123")

	addr := models.ShippingAddress{FullName: "Ani", Phone: "0812", Address: "Jl. Mawar 1", City: "Bandung", Province: "Jawa Barat", PostalCode: "40111"}
	require.NoError(t, db.Create(&addr).Error)
	for i, amount := range []int64{50000, 100000} {
		order := models.Order{
			UserID:            &buyer.ID,
			ShippingAddressID: addr.ID,
			TotalAmount:       decimal.NewFromInt(amount),
			Status:            models.OrderStatusPending,
			PaymentStatus:     models.PaymentStatusPending,
			OrderNumber:       fmt.Sprintf("ORDER-%d-1234", i),
		}
		require.NoError(t, db.Create(&order).Error)
	}

	r := gin.New()
	r.GET("/admin/users", GetAllUsers(db))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		Email       string          `json:"email"`
		OrdersCount int64           `json:"orders_count"`
		TotalSpent  decimal.Decimal `json:"total_spent"`
		Status      string          `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	byEmail := map[string]int{}
	for i, row := range rows {
		byEmail[row.Email] = i
		assert.Equal(t, "active", row.Status)
	}

	ani := rows[byEmail["ani@example.com"]]
	assert.Equal(t, int64(2), ani.OrdersCount)
	assert.True(t, ani.TotalSpent.Equal(decimal.NewFromInt(150000)))

	budi := rows[byEmail["budi@example.com"]]
	assert.Equal(t, int64(0), budi.OrdersCount)
	assert.True(t, budi.TotalSpent.Equal(decimal.Zero))
}
