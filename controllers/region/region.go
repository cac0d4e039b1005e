package regionControllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// The storefront's address form needs province/regency dropdowns. These are a
// pure pass-through of the public administrative-boundary API; no business
// logic touches the data.

var client = &http.Client{Timeout: 10 * time.Second}

func proxy(c *gin.Context, url string) {
	resp, err := client.Get(url)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "region service unavailable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "region service unavailable"})
		return
	}
	c.Data(resp.StatusCode, "application/json", body)
}

// GET /proxy/provinces
func GetProvinces(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxy(c, baseURL+"/provinces.json")
	}
}

// GET /proxy/regencies/:provCode
func GetRegencies(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxy(c, baseURL+"/regencies/"+c.Param("provCode")+".json")
	}
}
