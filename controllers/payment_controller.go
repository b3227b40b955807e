package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Govind-619/DonateHub/models"
	"github.com/Govind-619/DonateHub/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Donation bounds in paise, mirroring the donate page (₹10 to ₹10,00,000)
const (
	MinimumAmountPaise = 1000
	MaximumAmountPaise = 100000000
)

// OrderGateway is the part of the Razorpay order API the controller uses.
// *resources.Order from razorpay-go satisfies it.
type OrderGateway interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// ReceiptSender delivers a receipt for a verified donation
type ReceiptSender interface {
	SendReceipt(r utils.DonationReceipt) error
}

// PaymentController serves the create-order and verify-payment endpoints
type PaymentController struct {
	orders    OrderGateway
	keyID     string
	keySecret string
	currency  string
	receipts  ReceiptSender
	now       func() time.Time
}

// NewPaymentController wires the controller. receipts may be nil.
func NewPaymentController(orders OrderGateway, keyID, keySecret, currency string, receipts ReceiptSender) *PaymentController {
	if currency == "" {
		currency = "INR"
	}
	return &PaymentController{
		orders:    orders,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		receipts:  receipts,
		now:       time.Now,
	}
}

// POST /api/payment/create-order
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create-order request: %v", err)
		utils.BadRequest(c, "Invalid request. amount is required", err.Error())
		return
	}
	if req.Amount < MinimumAmountPaise {
		utils.LogError("Donation amount below minimum: %d paise", req.Amount)
		utils.BadRequest(c, "Minimum donation amount is ₹10", gin.H{"minimum_paise": MinimumAmountPaise})
		return
	}
	if req.Amount > MaximumAmountPaise {
		utils.LogError("Donation amount above maximum: %d paise", req.Amount)
		utils.BadRequest(c, "Maximum donation amount is ₹10,00,000", gin.H{"maximum_paise": MaximumAmountPaise})
		return
	}
	utils.LogInfo("Processing donation amount: %d paise", req.Amount)

	orderData := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        pc.currency,
		"receipt":         "donation_rcpt_" + uuid.New().String()[:8],
		"payment_capture": 1,
	}
	utils.LogDebug("Creating Razorpay order with data: %+v", orderData)

	rzOrder, err := pc.orders.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for %d paise: %v", req.Amount, err)
		utils.AbortWithAppError(c, utils.BadGatewayError("Failed to create Razorpay order", err))
		return
	}
	orderID := fmt.Sprintf("%v", rzOrder["id"])
	if rzOrder["id"] == nil || orderID == "" {
		utils.LogError("Razorpay order response carried no id: %+v", rzOrder)
		utils.AbortWithAppError(c, utils.BadGatewayError("Failed to create Razorpay order", nil))
		return
	}
	utils.LogInfo("Successfully created Razorpay order %s", orderID)

	c.JSON(http.StatusOK, models.OrderDescriptor{
		KeyID:    pc.keyID,
		Amount:   models.MinorAmount(amountString(rzOrder["amount"], req.Amount)),
		Currency: stringOr(rzOrder["currency"], pc.currency),
		OrderID:  orderID,
	})
}

// POST /api/payment/verify-payment
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	var req models.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid verify-payment request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogDebug("Received verification request - Order ID: %s, Payment ID: %s", req.RazorpayOrderID, req.RazorpayPaymentID)

	if !VerifySignature(pc.keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		utils.LogError("Payment verification failed - Order ID: %s, Payment ID: %s", req.RazorpayOrderID, req.RazorpayPaymentID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": false})
		return
	}
	utils.LogInfo("Payment signature verified for order ID: %s", req.RazorpayOrderID)

	if pc.receipts != nil {
		go pc.sendReceipt(req, pc.now())
	}

	utils.Success(c, "Payment verified successfully", gin.H{
		"order_id":   req.RazorpayOrderID,
		"payment_id": req.RazorpayPaymentID,
	})
}

func (pc *PaymentController) sendReceipt(req models.VerificationRequest, verifiedAt time.Time) {
	order, err := pc.orders.Fetch(req.RazorpayOrderID, nil, nil)
	if err != nil {
		utils.LogError("Failed to fetch order %s for receipt: %v", req.RazorpayOrderID, err)
		return
	}
	amount, err := strconv.ParseInt(amountString(order["amount"], 0), 10, 64)
	if err != nil {
		utils.LogError("Order %s has unreadable amount %v: %v", req.RazorpayOrderID, order["amount"], err)
		return
	}
	receipt := utils.DonationReceipt{
		ReceiptNo:   uuid.New().String(),
		OrderID:     req.RazorpayOrderID,
		PaymentID:   req.RazorpayPaymentID,
		AmountMinor: amount,
		Currency:    stringOr(order["currency"], pc.currency),
		VerifiedAt:  verifiedAt,
	}
	if err := pc.receipts.SendReceipt(receipt); err != nil {
		utils.LogError("Failed to send receipt for payment %s: %v", req.RazorpayPaymentID, err)
	}
}

// VerifySignature checks the checkout callback signature, an HMAC-SHA256
// of "order_id|payment_id" keyed with the account secret
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature Razorpay attaches to a checkout callback
func Sign(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// amountString renders a Razorpay amount field as an integer string. JSON
// numbers arrive as float64, which %v would print in exponent form.
func amountString(v interface{}, fallback int64) string {
	switch a := v.(type) {
	case float64:
		return decimal.NewFromFloat(a).Truncate(0).String()
	case int:
		return strconv.Itoa(a)
	case int64:
		return strconv.FormatInt(a, 10)
	case string:
		if a != "" {
			return a
		}
	}
	return strconv.FormatInt(fallback, 10)
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
