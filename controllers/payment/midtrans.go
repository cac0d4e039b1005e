package paymentControllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	orderControllers "github.com/gore3784/web-nesti/controllers/order"
	"github.com/gore3784/web-nesti/middleware"
	"github.com/gore3784/web-nesti/models"
)

// ShippingItemID is the sentinel the storefront uses for the shipping-fee
// pseudo-item. It is passed through to the gateway's item details but never
// stored as an order item.
const ShippingItemID = "SHIPPING"

// SnapClient talks to the Midtrans Snap API to create hosted-payment tokens.
type SnapClient struct {
	ServerKey string
	BaseURL   string
	HTTP      *http.Client
}

func NewSnapClient(serverKey, baseURL string) *SnapClient {
	return &SnapClient{
		ServerKey: serverKey,
		BaseURL:   baseURL,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

type SnapItemDetail struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Name     string  `json:"name"`
}

type SnapAddress struct {
	FirstName  string `json:"first_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type SnapParams struct {
	TransactionDetails struct {
		OrderID     string  `json:"order_id"`
		GrossAmount float64 `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName       string      `json:"first_name"`
		Email           string      `json:"email"`
		Phone           string      `json:"phone"`
		ShippingAddress SnapAddress `json:"shipping_address"`
	} `json:"customer_details"`
	ItemDetails []SnapItemDetail `json:"item_details"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// CreateToken requests a Snap token for the given transaction. The order has
// already been persisted; a failure here leaves it pending for a later retry.
func (s *SnapClient) CreateToken(params SnapParams) (string, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/snap/v1/transactions", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.ServerKey, "")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(respBody))
	}

	var snap snapResponse
	if err := json.Unmarshal(respBody, &snap); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if len(snap.ErrorMessages) > 0 {
		return "", fmt.Errorf("payment gateway error: %s", snap.ErrorMessages[0])
	}
	if snap.Token == "" {
		return "", errors.New("payment gateway returned empty token")
	}
	return snap.Token, nil
}

// -------- Handlers --------

type PaymentItemInput struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
}

type CreateTransactionRequest struct {
	ShippingAddress orderControllers.ShippingAddressInput `json:"shipping_address" binding:"required"`
	TotalAmount     decimal.Decimal                       `json:"total_amount"`
	Email           string                                `json:"email" binding:"required,email"`
	Items           []PaymentItemInput                    `json:"items" binding:"required,min=1,dive"`
}

func snapParamsFor(orderNumber string, total decimal.Decimal, email string, addr orderControllers.ShippingAddressInput, items []SnapItemDetail) SnapParams {
	var params SnapParams
	params.TransactionDetails.OrderID = orderNumber
	params.TransactionDetails.GrossAmount = total.InexactFloat64()
	params.CustomerDetails.FirstName = addr.FullName
	params.CustomerDetails.Email = email
	params.CustomerDetails.Phone = addr.Phone
	params.CustomerDetails.ShippingAddress = SnapAddress{
		FirstName:  addr.FullName,
		Phone:      addr.Phone,
		Address:    addr.Address,
		City:       addr.City,
		PostalCode: addr.PostalCode,
	}
	params.ItemDetails = items
	return params
}

// CreateTransaction persists a pending order from the checkout payload and
// returns a Snap token for the hosted payment page. A gateway failure keeps
// the pending order so the customer can retry via the re-pay endpoint.
// POST /payments/midtrans
func CreateTransaction(db *gorm.DB, snap *SnapClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)

		var req CreateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.TotalAmount.Cmp(decimal.Zero) <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Total amount must be positive"})
			return
		}

		var orderItems []models.OrderItem
		var snapItems []SnapItemDetail
		for _, in := range req.Items {
			if in.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Item price must not be negative"})
				return
			}
			snapItems = append(snapItems, SnapItemDetail{
				ID:       in.ID,
				Price:    in.Price.InexactFloat64(),
				Quantity: in.Quantity,
				Name:     in.Name,
			})
			if in.ID == ShippingItemID {
				continue
			}
			productID, err := strconv.ParseUint(in.ID, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id: " + in.ID})
				return
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID: uint(productID),
				Quantity:  in.Quantity,
				Price:     in.Price,
			})
		}
		if len(orderItems) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one product"})
			return
		}

		var order *models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			order, txErr = orderControllers.CreatePendingOrder(tx, &userID, req.ShippingAddress, orderItems, req.TotalAmount)
			return txErr
		})
		if err != nil {
			if errors.Is(err, orderControllers.ErrUnknownProduct) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		token, err := snap.CreateToken(snapParamsFor(order.OrderNumber, req.TotalAmount, req.Email, req.ShippingAddress, snapItems))
		if err != nil {
			// The pending order stays; the client retries or abandons it.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":        err.Error(),
				"order_number": order.OrderNumber,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"snap_token":   token,
			"order_number": order.OrderNumber,
		})
	}
}

// PayExistingOrder requests a fresh Snap token for an order that was created
// earlier but never paid.
// POST /payments/midtrans/:order_number
func PayExistingOrder(db *gorm.DB, snap *SnapClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("order_number")

		var order models.Order
		err := db.Preload("Items.Product").Preload("ShippingAddress").
			Where("order_number = ?", orderNumber).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}

		userID, _ := middleware.CurrentUserID(c)
		isOwner := order.UserID != nil && *order.UserID == userID
		if !isOwner && !middleware.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}

		var snapItems []SnapItemDetail
		for _, item := range order.Items {
			name := "Item"
			if item.Product != nil {
				name = item.Product.Name
			}
			snapItems = append(snapItems, SnapItemDetail{
				ID:       strconv.FormatUint(uint64(item.ProductID), 10),
				Price:    item.Price.InexactFloat64(),
				Quantity: item.Quantity,
				Name:     name,
			})
		}

		addr := orderControllers.ShippingAddressInput{}
		if order.ShippingAddress != nil {
			addr = orderControllers.ShippingAddressInput{
				FullName:   order.ShippingAddress.FullName,
				Phone:      order.ShippingAddress.Phone,
				Address:    order.ShippingAddress.Address,
				City:       order.ShippingAddress.City,
				Province:   order.ShippingAddress.Province,
				PostalCode: order.ShippingAddress.PostalCode,
			}
		}

		email, _ := c.Get("email")
		emailStr, _ := email.(string)
		if emailStr == "" {
			emailStr = "user@example.com"
		}

		token, err := snap.CreateToken(snapParamsFor(order.OrderNumber, order.TotalAmount, emailStr, addr, snapItems))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"snap_token":   token,
			"order_number": order.OrderNumber,
		})
	}
}
