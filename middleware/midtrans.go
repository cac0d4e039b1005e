package middleware

import (
	"crypto/sha512"
	"encoding/hex"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type callbackSignature struct {
	OrderID      string `json:"order_id"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
	SignatureKey string `json:"signature_key"`
}

// MidtransWebhookAuth verifies the notification signature:
// sha512(order_id + status_code + gross_amount + server key).
// Sandbox mode skips the check, matching the gateway's test traffic.
func MidtransWebhookAuth(serverKey, mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.ToLower(mode) == "sandbox" {
			c.Next()
			return
		}

		// Buffered read so the handler can bind the same body again.
		var sig callbackSignature
		if err := c.ShouldBindBodyWith(&sig, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification payload"})
			c.Abort()
			return
		}
		if sig.SignatureKey == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing signature_key"})
			c.Abort()
			return
		}

		h := sha512.New()
		h.Write([]byte(sig.OrderID + sig.StatusCode + sig.GrossAmount + serverKey))
		calculated := hex.EncodeToString(h.Sum(nil))

		if !strings.EqualFold(calculated, sig.SignatureKey) {
			log.Println("❌ Webhook signature mismatch for order:", sig.OrderID)
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
