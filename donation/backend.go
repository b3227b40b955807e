package donation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Govind-619/DonateHub/models"
	"github.com/Govind-619/DonateHub/utils"
)

// Backend paths
const (
	CreateOrderPath   = "/api/payment/create-order"
	VerifyPaymentPath = "/api/payment/verify-payment"
)

// Backend is the payment service the coordinator talks to
type Backend interface {
	CreateOrder(ctx context.Context, amountMinor int64) (models.OrderDescriptor, error)
	VerifyPayment(ctx context.Context, req models.VerificationRequest) error
}

// HTTPBackend calls the payment service over HTTP/JSON
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend returns a backend rooted at baseURL. A nil client gets a
// default one with a 15 second timeout.
func NewHTTPBackend(baseURL string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPBackend{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// CreateOrder implements Backend
func (b *HTTPBackend) CreateOrder(ctx context.Context, amountMinor int64) (models.OrderDescriptor, error) {
	var desc models.OrderDescriptor
	if err := b.post(ctx, CreateOrderPath, models.CreateOrderRequest{Amount: amountMinor}, &desc); err != nil {
		return models.OrderDescriptor{}, err
	}
	if desc.OrderID == "" || desc.KeyID == "" || desc.Amount == "" {
		return models.OrderDescriptor{}, errors.New("create-order response is missing keyId, orderId or amount")
	}
	return desc, nil
}

// VerifyPayment implements Backend. Any 2xx counts as verified.
func (b *HTTPBackend) VerifyPayment(ctx context.Context, req models.VerificationRequest) error {
	return b.post(ctx, VerifyPaymentPath, req, nil)
}

func (b *HTTPBackend) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	utils.LogDebug("POST %s -> %d in %v", path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return utils.NewAppError(resp.StatusCode, fmt.Sprintf("POST %s returned %d", path, resp.StatusCode), errors.New(strings.TrimSpace(string(snippet))))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
