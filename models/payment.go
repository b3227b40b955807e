package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CreateOrderRequest is the body of POST /api/payment/create-order.
// Amount is in minor units (paise).
type CreateOrderRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// OrderDescriptor is what the backend returns for a created order. It is
// consumed once to configure the checkout widget.
type OrderDescriptor struct {
	KeyID    string      `json:"keyId"`
	Amount   MinorAmount `json:"amount"`
	Currency string      `json:"currency"`
	OrderID  string      `json:"orderId"`
}

// VerificationRequest is the body of POST /api/payment/verify-payment
type VerificationRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// MinorAmount is an amount in paise. It is written as a JSON string and
// read from either a string or a number.
type MinorAmount string

// MarshalJSON implements json.Marshaler
func (a MinorAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// UnmarshalJSON implements json.Unmarshaler
func (a *MinorAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = MinorAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or numeric string: %w", err)
	}
	*a = MinorAmount(n.String())
	return nil
}

func (a MinorAmount) String() string {
	return string(a)
}
