package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/config"
	paymentControllers "github.com/gore3784/web-nesti/controllers/payment"
)

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	snap := paymentControllers.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransBaseURL)

	// Public auth + authenticated profile routes
	SetupAuthRoutes(r, db, cfg)

	// Catalog: public reads, admin-gated mutations
	SetupCatalogRoutes(r, db, cfg)

	// User and admin order routes
	SetupOrderRoutes(r, db, cfg)

	// Payment session creation + gateway webhook
	SetupPaymentRoutes(r, db, cfg, snap)

	// Admin back office
	SetupAdminRoutes(r, db, cfg)

	// Region proxy for the address form
	SetupRegionRoutes(r, cfg)
}
