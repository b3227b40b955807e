package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/DonateHub/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

type fakeGateway struct {
	mu        sync.Mutex
	created   []map[string]interface{}
	order     map[string]interface{}
	createErr error
	fetchErr  error
}

func (g *fakeGateway) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, data)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.order, nil
}

func (g *fakeGateway) Fetch(orderID string, _ map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.order, nil
}

type fakeReceipts struct {
	mu   sync.Mutex
	sent []utils.DonationReceipt
}

func (r *fakeReceipts) SendReceipt(receipt utils.DonationReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, receipt)
	return nil
}

func (r *fakeReceipts) all() []utils.DonationReceipt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]utils.DonationReceipt(nil), r.sent...)
}

func newTestRouter(pc *PaymentController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payment/create-order", pc.CreateOrder)
	r.POST("/api/payment/verify-payment", pc.VerifyPayment)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func razorpayOrder(id string, amount float64) map[string]interface{} {
	return map[string]interface{}{
		"id":       id,
		"entity":   "order",
		"amount":   amount,
		"currency": "INR",
		"status":   "created",
	}
}

func TestCreateOrder_ReturnsFlatDescriptor(t *testing.T) {
	gw := &fakeGateway{order: razorpayOrder("order_o1", 10000)}
	r := newTestRouter(NewPaymentController(gw, "rzp_test_k1", testSecret, "INR", nil))

	w := postJSON(r, "/api/payment/create-order", `{"amount":10000}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"keyId":"rzp_test_k1","amount":"10000","currency":"INR","orderId":"order_o1"}`, w.Body.String())

	require.Len(t, gw.created, 1)
	assert.Equal(t, int64(10000), gw.created[0]["amount"])
	assert.Equal(t, "INR", gw.created[0]["currency"])
	assert.Equal(t, 1, gw.created[0]["payment_capture"])
	assert.True(t, strings.HasPrefix(gw.created[0]["receipt"].(string), "donation_rcpt_"))
}

func TestCreateOrder_LargeAmountIsNotExponent(t *testing.T) {
	gw := &fakeGateway{order: razorpayOrder("order_big", 100000000)}
	r := newTestRouter(NewPaymentController(gw, "k", testSecret, "INR", nil))

	w := postJSON(r, "/api/payment/create-order", `{"amount":100000000}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "100000000", body["amount"])
}

func TestCreateOrder_RejectsBadRequests(t *testing.T) {
	tests := map[string]string{
		"missing amount": `{}`,
		"not json":       `amount=100`,
		"string amount":  `{"amount":"abc"}`,
		"below minimum":  `{"amount":999}`,
		"negative":       `{"amount":-1000}`,
		"above maximum":  `{"amount":100000001}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			gw := &fakeGateway{order: razorpayOrder("order_x", 1000)}
			r := newTestRouter(NewPaymentController(gw, "k", testSecret, "INR", nil))

			w := postJSON(r, "/api/payment/create-order", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, gw.created, "no order may be created")
		})
	}
}

func TestCreateOrder_GatewayFailure(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("Authentication failed")}
	r := newTestRouter(NewPaymentController(gw, "k", testSecret, "INR", nil))

	w := postJSON(r, "/api/payment/create-order", `{"amount":5000}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp utils.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Failed to create Razorpay order", resp.Message)
}

func TestVerifyPayment(t *testing.T) {
	valid := Sign(testSecret, "order_o1", "pay_p1")

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "valid signature",
			body: `{"razorpay_order_id":"order_o1","razorpay_payment_id":"pay_p1","razorpay_signature":"` + valid + `"}`,
			want: http.StatusOK,
		},
		{
			name: "tampered payment id",
			body: `{"razorpay_order_id":"order_o1","razorpay_payment_id":"pay_p2","razorpay_signature":"` + valid + `"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "wrong signature",
			body: `{"razorpay_order_id":"order_o1","razorpay_payment_id":"pay_p1","razorpay_signature":"deadbeef"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing signature",
			body: `{"razorpay_order_id":"order_o1","razorpay_payment_id":"pay_p1"}`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(NewPaymentController(&fakeGateway{}, "k", testSecret, "INR", nil))

			w := postJSON(r, "/api/payment/verify-payment", tt.body)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestVerifyPayment_FailureMessage(t *testing.T) {
	r := newTestRouter(NewPaymentController(&fakeGateway{}, "k", testSecret, "INR", nil))

	w := postJSON(r, "/api/payment/verify-payment", `{"razorpay_order_id":"o1","razorpay_payment_id":"p1","razorpay_signature":"s1"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp utils.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment verification failed", resp.Message)
}

func TestVerifyPayment_SendsReceipt(t *testing.T) {
	gw := &fakeGateway{order: razorpayOrder("order_o1", 25000)}
	receipts := &fakeReceipts{}
	pc := NewPaymentController(gw, "k", testSecret, "INR", receipts)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	pc.now = func() time.Time { return fixed }
	r := newTestRouter(pc)

	body, _ := json.Marshal(map[string]string{
		"razorpay_order_id":   "order_o1",
		"razorpay_payment_id": "pay_p1",
		"razorpay_signature":  Sign(testSecret, "order_o1", "pay_p1"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify-payment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool { return len(receipts.all()) == 1 }, time.Second, 5*time.Millisecond)
	got := receipts.all()[0]
	assert.Equal(t, "order_o1", got.OrderID)
	assert.Equal(t, "pay_p1", got.PaymentID)
	assert.Equal(t, int64(25000), got.AmountMinor)
	assert.Equal(t, "INR 250.00", got.AmountDisplay())
	assert.Equal(t, fixed, got.VerifiedAt)
}

func TestVerifyPayment_NoReceiptWhenOrderFetchFails(t *testing.T) {
	gw := &fakeGateway{fetchErr: errors.New("timeout")}
	receipts := &fakeReceipts{}
	r := newTestRouter(NewPaymentController(gw, "k", testSecret, "INR", receipts))

	w := postJSON(r, "/api/payment/verify-payment",
		`{"razorpay_order_id":"o1","razorpay_payment_id":"p1","razorpay_signature":"`+Sign(testSecret, "o1", "p1")+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, receipts.all())
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "10000", amountString(float64(10000), 0))
	assert.Equal(t, "1000000", amountString(float64(1e6), 0))
	assert.Equal(t, "500", amountString("500", 0))
	assert.Equal(t, "700", amountString(nil, 700))
}
