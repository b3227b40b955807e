// Package checkout models the third-party checkout widget: the script that
// has to be present before it can be used, the options it is opened with,
// and the callback it fires once a payment completes.
package checkout

// ScriptURL is where Razorpay serves the checkout widget
const ScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

// Prefill carries the payer identity shown pre-filled in the widget
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Theme controls widget presentation
type Theme struct {
	Color string `json:"color"`
}

// PaymentResponse is what the widget hands to the handler when the user
// completes a payment. It comes from a third party and proves nothing on
// its own.
type PaymentResponse struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Handler receives the widget's payment callback
type Handler func(PaymentResponse)

// Options configure one widget instance
type Options struct {
	Key         string  `json:"key"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Handler     Handler `json:"-"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Widget is an instantiated checkout surface
type Widget interface {
	// Open presents the widget and returns without waiting for the user.
	// The handler from Options fires later, or never if the user abandons.
	Open() error
}

// Provider builds widgets. It becomes usable once its script is loaded.
type Provider interface {
	New(opts Options) (Widget, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(opts Options) (Widget, error)

// New implements Provider
func (f ProviderFunc) New(opts Options) (Widget, error) {
	return f(opts)
}
