// Package donation runs the donation payment flow: validate the amount,
// load the checkout script, create an order, open the widget and, once the
// widget reports a payment, verify it with the backend.
package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/DonateHub/checkout"
	"github.com/Govind-619/DonateHub/models"
	"github.com/Govind-619/DonateHub/utils"
)

// Config holds the static fields of every flow
type Config struct {
	ScriptURL   string
	Name        string
	Description string
	Prefill     checkout.Prefill
	Theme       checkout.Theme
}

// DefaultConfig returns the configuration of the public donate page
func DefaultConfig() Config {
	return Config{
		ScriptURL:   checkout.ScriptURL,
		Name:        "Support Developer",
		Description: "Donation",
		Prefill: checkout.Prefill{
			Name:    "Ritik Raj Gupta",
			Email:   "test@example.com",
			Contact: "9999999999",
		},
		Theme: checkout.Theme{Color: "#3399cc"},
	}
}

// Coordinator starts donation flows. Flows share nothing but the checkout
// environment.
type Coordinator struct {
	cfg      Config
	env      *checkout.Environment
	loader   checkout.Loader
	backend  Backend
	notifier Notifier
	metrics  *Metrics
}

// Option customises a Coordinator
type Option func(*Coordinator)

// WithMetrics records flow outcomes on m
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// NewCoordinator wires a coordinator. The loader is expected to activate
// scripts in env.
func NewCoordinator(cfg Config, env *checkout.Environment, loader checkout.Loader, backend Backend, notifier Notifier, opts ...Option) *Coordinator {
	if cfg.ScriptURL == "" {
		cfg.ScriptURL = checkout.ScriptURL
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	c := &Coordinator{
		cfg:      cfg,
		env:      env,
		loader:   loader,
		backend:  backend,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Donate starts a flow for the user-typed amount. It returns once the
// widget is open, or with the flow's error if it ended before that.
//
// ctx is the session context: it bounds the backend calls and the wait for
// the widget callback. A flow whose widget is never completed stays in
// StateAwaitingWidget until ctx ends.
func (c *Coordinator) Donate(ctx context.Context, input string) (*Flow, error) {
	f := newFlow()
	f.transition(StateValidating)

	amount, err := ParseAmount(input)
	if err == nil {
		err = ValidateAmount(amount)
	}
	if err != nil {
		utils.LogInfo("Flow %s rejected amount %q: %v", f.id, input, err)
		message := MsgMinimumAmount
		if errors.Is(err, ErrAboveMaximum) {
			message = MsgMaximumAmount
		}
		return f, c.terminate(f, StateRejected, err, SeverityError, message)
	}
	f.setAmount(amount)

	c.notify(SeverityInfo, MsgInitializing)
	f.transition(StateLoadingScript)
	start := time.Now()
	loaded := c.loader.EnsureLoaded(ctx, c.cfg.ScriptURL)
	c.metrics.step("load_script", start)
	if !loaded {
		return f, c.terminate(f, StateLoadFailed, newScriptLoadError(c.cfg.ScriptURL), SeverityError, MsgScriptLoadFailed)
	}

	f.transition(StateCreatingOrder)
	amountMinor := ToMinorUnits(amount)
	start = time.Now()
	desc, err := c.backend.CreateOrder(ctx, amountMinor)
	c.metrics.step("create_order", start)
	if err != nil {
		utils.LogError("Flow %s: failed to create order for %d paise: %v", f.id, amountMinor, err)
		return f, c.terminate(f, StateOrderFailed, newOrderCreationError("create order", err), SeverityError, MsgOrderFailed)
	}
	f.setOrder(desc)
	f.transition(StateAwaitingWidget)
	utils.LogInfo("Flow %s: created order %s for %s %s", f.id, desc.OrderID, desc.Amount, desc.Currency)

	if err := c.openWidget(f, desc); err != nil {
		utils.LogError("Flow %s: failed to open checkout for order %s: %v", f.id, desc.OrderID, err)
		return f, c.terminate(f, StateOrderFailed, newOrderCreationError("open checkout", err), SeverityError, MsgOrderFailed)
	}

	go c.awaitCallback(ctx, f)
	return f, nil
}

func (c *Coordinator) openWidget(f *Flow, desc models.OrderDescriptor) error {
	provider, err := c.env.Provider(c.cfg.ScriptURL)
	if err != nil {
		return err
	}
	opts := checkout.Options{
		Key:         desc.KeyID,
		Amount:      desc.Amount.String(),
		Currency:    desc.Currency,
		Name:        c.cfg.Name,
		Description: c.cfg.Description,
		OrderID:     desc.OrderID,
		Handler: func(resp checkout.PaymentResponse) {
			if !f.deliver(resp) {
				utils.LogError("Flow %s: dropping repeated widget callback for payment %s", f.id, resp.RazorpayPaymentID)
			}
		},
		Prefill: c.cfg.Prefill,
		Theme:   c.cfg.Theme,
	}
	widget, err := provider.New(opts)
	if err != nil {
		return fmt.Errorf("instantiate widget: %w", err)
	}
	return widget.Open()
}

// awaitCallback is the only reader of the flow's mailbox
func (c *Coordinator) awaitCallback(ctx context.Context, f *Flow) {
	select {
	case resp := <-f.callback:
		c.verify(ctx, f, resp)
	case <-ctx.Done():
		utils.LogDebug("Flow %s: session ended while awaiting widget: %v", f.id, ctx.Err())
	}
}

func (c *Coordinator) verify(ctx context.Context, f *Flow, resp checkout.PaymentResponse) {
	f.transition(StateVerifying)
	c.notify(SeveritySuccess, fmt.Sprintf(MsgPaymentSuccessful, resp.RazorpayPaymentID))

	if desc, ok := f.Order(); ok && desc.OrderID != resp.RazorpayOrderID {
		utils.LogError("Flow %s: widget reported order %s, expected %s", f.id, resp.RazorpayOrderID, desc.OrderID)
	}

	req := models.VerificationRequest{
		RazorpayOrderID:   resp.RazorpayOrderID,
		RazorpayPaymentID: resp.RazorpayPaymentID,
		RazorpaySignature: resp.RazorpaySignature,
	}
	start := time.Now()
	err := c.backend.VerifyPayment(ctx, req)
	c.metrics.step("verify_payment", start)
	if err != nil {
		utils.LogError("Flow %s: verification failed for payment %s: %v", f.id, resp.RazorpayPaymentID, err)
		_ = c.terminate(f, StateVerificationFailed, newVerificationError(err), SeverityError, MsgVerificationFailed)
		return
	}

	utils.LogInfo("Payment verified successfully! flow=%s order=%s payment=%s", f.id, resp.RazorpayOrderID, resp.RazorpayPaymentID)
	c.metrics.outcome(StateSucceeded)
	f.transition(StateSucceeded)
}

// terminate emits the single notification of a failure and then moves f
// to its terminal state
func (c *Coordinator) terminate(f *Flow, to State, err error, severity Severity, message string) error {
	c.notify(severity, message)
	c.metrics.outcome(to)
	f.fail(to, err)
	return err
}

func (c *Coordinator) notify(severity Severity, message string) {
	c.notifier.Notify(Notification{Severity: severity, Message: message})
}
