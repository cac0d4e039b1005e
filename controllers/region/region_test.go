package regionControllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetProvincesPassesUpstreamThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/provinces.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"code":"32","name":"Jawa Barat"}]}`))
	}))
	defer upstream.Close()

	r := gin.New()
	r.GET("/proxy/provinces", GetProvinces(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/proxy/provinces", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jawa Barat")
}

func TestGetRegenciesForwardsProvinceCode(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/regencies/32.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	r := gin.New()
	r.GET("/proxy/regencies/:provCode", GetRegencies(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/proxy/regencies/32", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Upstream status codes pass through untouched.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProxyUnreachableUpstream(t *testing.T) {
	r := gin.New()
	r.GET("/proxy/provinces", GetProvinces("http://127.0.0.1:1"))

	req := httptest.NewRequest(http.MethodGet, "/proxy/provinces", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
