package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/config"
	paymentControllers "github.com/gore3784/web-nesti/controllers/payment"
	"github.com/gore3784/web-nesti/middleware"
)

// SetupPaymentRoutes registers payment-session creation (bearer-gated) and
// the gateway webhook (unauthenticated, signature-verified).
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, snap *paymentControllers.SnapClient) {
	requireAuth := middleware.ValidateToken(cfg.JWTSecret)
	webhookAuth := middleware.MidtransWebhookAuth(cfg.MidtransServerKey, cfg.MidtransMode)
	callback := paymentControllers.Callback(db)
	payExisting := paymentControllers.PayExistingOrder(db, snap)

	payments := r.Group("/payments")
	{
		payments.POST("/midtrans", requireAuth, paymentControllers.CreateTransaction(db, snap))

		// The gateway posts to /payments/midtrans/callback with no bearer
		// token; everything else under the wildcard is a customer re-pay and
		// needs one. gin cannot mix the static "callback" segment with the
		// :order_number wildcard, so both go through one dispatcher.
		payments.POST("/midtrans/:order_number", func(c *gin.Context) {
			if c.Param("order_number") == "callback" {
				webhookAuth(c)
				if c.IsAborted() {
					return
				}
				callback(c)
				return
			}
			requireAuth(c)
			if c.IsAborted() {
				return
			}
			payExisting(c)
		})
	}
}
