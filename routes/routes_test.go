package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/DonateHub/checkout"
	"github.com/Govind-619/DonateHub/controllers"
	"github.com/Govind-619/DonateHub/donation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "route_secret"

type stubGateway struct{}

func (stubGateway) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"id":       "order_flow1",
		"amount":   float64(data["amount"].(int64)),
		"currency": data["currency"],
	}, nil
}

func (stubGateway) Fetch(orderID string, _ map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	return map[string]interface{}{"id": orderID}, nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	pc := controllers.NewPaymentController(stubGateway{}, "rzp_test_key", testSecret, "INR", nil)
	return SetupRouter(pc, RouterOptions{AllowedOrigin: "https://donate.example", Registry: reg}), reg
}

func TestHealthz(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/payment/create-order", nil)
	req.Header.Set("Origin", "https://donate.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://donate.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestEngine(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `donatehub_http_requests_total{endpoint="/healthz",method="GET",status="200"} 1`)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

// signingWidget plays the checkout widget: it completes the payment as soon
// as it is opened and signs the callback like Razorpay would
type signingWidget struct {
	opts      checkout.Options
	signature func(orderID, paymentID string) string
}

func (w *signingWidget) Open() error {
	go w.opts.Handler(checkout.PaymentResponse{
		RazorpayOrderID:   w.opts.OrderID,
		RazorpayPaymentID: "pay_flow1",
		RazorpaySignature: w.signature(w.opts.OrderID, "pay_flow1"),
	})
	return nil
}

func runFlowAgainstAPI(t *testing.T, sign func(orderID, paymentID string) string) (*donation.Flow, []donation.Notification, checkout.Options) {
	t.Helper()
	r, _ := newTestEngine(t)
	api := httptest.NewServer(r)
	defer api.Close()

	script := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("/* checkout */"))
	}))
	defer script.Close()
	scriptURL := script.URL + "/v1/checkout.js"

	var opened checkout.Options
	env := checkout.NewEnvironment()
	env.Register(scriptURL, checkout.ProviderFunc(func(opts checkout.Options) (checkout.Widget, error) {
		opened = opts
		return &signingWidget{opts: opts, signature: sign}, nil
	}))

	cfg := donation.DefaultConfig()
	cfg.ScriptURL = scriptURL
	notifier := donation.NewChannelNotifier(8)
	coord := donation.NewCoordinator(cfg, env, checkout.NewHTTPLoader(env, script.Client()), donation.NewHTTPBackend(api.URL, api.Client()), notifier)

	flow, err := coord.Donate(context.Background(), "100")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = flow.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)

	var notes []donation.Notification
	for len(notifier.C()) > 0 {
		notes = append(notes, <-notifier.C())
	}
	return flow, notes, opened
}

func TestDonationFlowEndToEnd(t *testing.T) {
	flow, notes, opened := runFlowAgainstAPI(t, func(orderID, paymentID string) string {
		return controllers.Sign(testSecret, orderID, paymentID)
	})

	assert.Equal(t, donation.StateSucceeded, flow.State())
	assert.Equal(t, "rzp_test_key", opened.Key)
	assert.Equal(t, "10000", opened.Amount)
	assert.Equal(t, "order_flow1", opened.OrderID)
	assert.Equal(t, []donation.Notification{
		{Severity: donation.SeverityInfo, Message: donation.MsgInitializing},
		{Severity: donation.SeveritySuccess, Message: "Payment successful: pay_flow1"},
	}, notes)
}

func TestDonationFlowEndToEnd_ForgedSignature(t *testing.T) {
	flow, notes, _ := runFlowAgainstAPI(t, func(orderID, paymentID string) string {
		return controllers.Sign("not-the-secret", orderID, paymentID)
	})

	assert.Equal(t, donation.StateVerificationFailed, flow.State())
	require.NotEmpty(t, notes)
	last := notes[len(notes)-1]
	assert.Equal(t, donation.SeverityError, last.Severity)
	assert.True(t, strings.HasPrefix(last.Message, "Payment verification failed"))
}
