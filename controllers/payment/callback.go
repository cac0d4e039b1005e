package paymentControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productcontroller "github.com/gore3784/web-nesti/controllers/product"
	"github.com/gore3784/web-nesti/middleware"
	"github.com/gore3784/web-nesti/models"
)

// NotificationPayload is the gateway's asynchronous payment notification.
// Delivery is at-least-once; processing must tolerate duplicates.
type NotificationPayload struct {
	OrderID           string `json:"order_id"` // carries our order_number
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// MapStatuses resolves the gateway's status vocabulary onto the store's
// (payment_status, order_status) pair. Unrecognized transaction statuses
// leave both fields as they are, so a replayed or future-version notification
// can never corrupt order state.
func MapStatuses(transactionStatus, fraudStatus string, currentPayment models.PaymentStatus, currentOrder models.OrderStatus) (models.PaymentStatus, models.OrderStatus) {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return models.PaymentStatusChallenge, models.OrderStatusPending
		}
		return models.PaymentStatusPaid, models.OrderStatusPaid
	case "settlement":
		return models.PaymentStatusPaid, models.OrderStatusPaid
	case "pending":
		return models.PaymentStatusPending, models.OrderStatusPending
	case "deny":
		return models.PaymentStatusDenied, models.OrderStatusCancelled
	case "expire":
		return models.PaymentStatusExpired, models.OrderStatusCancelled
	case "cancel":
		return models.PaymentStatusCancelled, models.OrderStatusCancelled
	default:
		return currentPayment, currentOrder
	}
}

var errOrderNotFound = errors.New("order not found")

// Callback is the gateway webhook: it reconciles the notification onto the
// order and, on the transition into paid, decrements stock for the order's
// items in the same transaction. Re-delivery of the same notification is a
// no-op: statuses are overwritten with the same values and the paid guard
// prevents a second decrement.
// POST /payments/midtrans/callback
func Callback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID := uuid.NewString()

		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ Payment callback panic [%s]: %v", eventID, r)
				middleware.RecordPaymentCallback("error")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "callback processing failed"})
			}
		}()

		var payload NotificationPayload
		if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
			middleware.RecordPaymentCallback("invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification payload"})
			return
		}

		log.Printf("🔔 Payment callback [%s]: order=%s transaction_status=%s fraud_status=%s transaction_id=%s",
			eventID, payload.OrderID, payload.TransactionStatus, payload.FraudStatus, payload.TransactionID)

		err := db.Transaction(func(tx *gorm.DB) error {
			// Lock the order row so overlapping duplicate deliveries
			// serialize: the second one re-reads payment_status after the
			// first commits and skips the decrement. SQLite serializes on the
			// database lock instead.
			q := tx.Preload("Items")
			if tx.Dialector.Name() == "postgres" {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}

			var order models.Order
			if err := q.
				Where("order_number = ?", payload.OrderID).
				First(&order).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errOrderNotFound
				}
				return err
			}

			newPayment, newStatus := MapStatuses(
				payload.TransactionStatus, payload.FraudStatus,
				order.PaymentStatus, order.Status,
			)

			// Decrement stock once, on the transition into paid. Duplicate
			// deliveries arrive with the order already paid and skip this.
			if newPayment == models.PaymentStatusPaid && order.PaymentStatus != models.PaymentStatusPaid {
				for _, item := range order.Items {
					if err := productcontroller.DecrementProductStock(tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}

			return tx.Model(&order).Updates(map[string]interface{}{
				"payment_status": newPayment,
				"status":         newStatus,
				"transaction_id": payload.TransactionID,
			}).Error
		})

		if err != nil {
			if errors.Is(err, errOrderNotFound) {
				log.Printf("❌ Payment callback [%s]: order not found: %s", eventID, payload.OrderID)
				middleware.RecordPaymentCallback("order_not_found")
				c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
				return
			}
			log.Printf("❌ Payment callback [%s] failed: %v (payload: %+v)", eventID, err, payload)
			middleware.RecordPaymentCallback("error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "callback processing failed"})
			return
		}

		middleware.RecordPaymentCallback("processed")
		c.JSON(http.StatusOK, gin.H{"message": "Callback processed"})
	}
}
