package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gore3784/web-nesti/config"
	regionControllers "github.com/gore3784/web-nesti/controllers/region"
)

// SetupRegionRoutes registers the address-form region proxy.
func SetupRegionRoutes(r *gin.Engine, cfg *config.Config) {
	proxyGroup := r.Group("/proxy")
	{
		proxyGroup.GET("/provinces", regionControllers.GetProvinces(cfg.RegionAPIBaseURL))
		proxyGroup.GET("/regencies/:provCode", regionControllers.GetRegencies(cfg.RegionAPIBaseURL))
	}
}
