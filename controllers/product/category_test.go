package productcontroller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gore3784/web-nesti/models"
)

func TestCreateCategoryDerivesUniqueSlug(t *testing.T) {
	db := setupDB(t)

	r := gin.New()
	r.POST("/categories", CreateCategory(db))

	body := `{"name":"Minuman Dingin"}`
	require.Equal(t, http.StatusCreated, postJSON(r, "/categories", body).Code)
	require.Equal(t, http.StatusCreated, postJSON(r, "/categories", body).Code)

	var slugs []string
	require.NoError(t, db.Model(&models.Category{}).Order("id ASC").Pluck("slug", &slugs).Error)
	assert.Equal(t, []string{"minuman-dingin", "minuman-dingin-2"}, slugs)
}

func TestDeleteCategoryRefusesWhenProductsRemain(t *testing.T) {
	db := setupDB(t)
	category := seedCategory(t, db, "kopi")
	seedProduct(t, db, category.ID, "Kopi Arabika", "kopi-arabika", 10)

	r := gin.New()
	r.DELETE("/categories/:id", DeleteCategory(db))

	req := httptest.NewRequest(http.MethodDelete, "/categories/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteCategoryRemovesEmptyCategory(t *testing.T) {
	db := setupDB(t)
	seedCategory(t, db, "kopi")

	r := gin.New()
	r.DELETE("/categories/:id", DeleteCategory(db))

	req := httptest.NewRequest(http.MethodDelete, "/categories/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteCategoryUnknownID(t *testing.T) {
	db := setupDB(t)

	r := gin.New()
	r.DELETE("/categories/:id", DeleteCategory(db))

	req := httptest.NewRequest(http.MethodDelete, "/categories/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
