package donation

import (
	"context"
	"sync"

	"github.com/Govind-619/DonateHub/checkout"
	"github.com/Govind-619/DonateHub/models"
	"github.com/Govind-619/DonateHub/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is a phase of a donation flow
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateLoadingScript  State = "loading_script"
	StateCreatingOrder  State = "creating_order"
	StateAwaitingWidget State = "awaiting_widget"
	StateVerifying      State = "verifying"
	StateSucceeded      State = "succeeded"

	StateRejected           State = "rejected"
	StateLoadFailed         State = "load_failed"
	StateOrderFailed        State = "order_failed"
	StateVerificationFailed State = "verification_failed"
)

// Terminal reports whether no further transition can leave s
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateRejected, StateLoadFailed, StateOrderFailed, StateVerificationFailed:
		return true
	}
	return false
}

var transitions = map[State][]State{
	StateIdle:           {StateValidating},
	StateValidating:     {StateRejected, StateLoadingScript},
	StateLoadingScript:  {StateLoadFailed, StateCreatingOrder},
	StateCreatingOrder:  {StateOrderFailed, StateAwaitingWidget},
	StateAwaitingWidget: {StateOrderFailed, StateVerifying},
	StateVerifying:      {StateVerificationFailed, StateSucceeded},
}

// Flow is one donation attempt. It is created by Coordinator.Donate and is
// done once it reaches a terminal state.
type Flow struct {
	id string

	mu      sync.Mutex
	state   State
	history []State
	amount  decimal.Decimal
	order   *models.OrderDescriptor
	err     error

	done      chan struct{}
	callback  chan checkout.PaymentResponse
	delivered sync.Once
}

func newFlow() *Flow {
	return &Flow{
		id:       uuid.New().String(),
		state:    StateIdle,
		history:  []State{StateIdle},
		done:     make(chan struct{}),
		callback: make(chan checkout.PaymentResponse, 1),
	}
}

// ID identifies the flow in logs
func (f *Flow) ID() string { return f.id }

// State returns the current phase
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// History returns every state the flow has been in, oldest first
func (f *Flow) History() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]State(nil), f.history...)
}

// Amount returns the validated amount in rupees
func (f *Flow) Amount() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount
}

// Order returns the order the widget was opened with, if any
func (f *Flow) Order() (models.OrderDescriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil {
		return models.OrderDescriptor{}, false
	}
	return *f.order, true
}

// Err returns the terminal error, nil while running or after success
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Done is closed when the flow reaches a terminal state
func (f *Flow) Done() <-chan struct{} { return f.done }

// Wait blocks until the flow is done or ctx ends, and returns the terminal
// state reached so far
func (f *Flow) Wait(ctx context.Context) (State, error) {
	select {
	case <-f.done:
		return f.State(), f.Err()
	case <-ctx.Done():
		return f.State(), ctx.Err()
	}
}

func (f *Flow) transition(to State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	from := f.state
	if !allowed(from, to) {
		utils.LogError("Flow %s: ignoring illegal transition %s -> %s", f.id, from, to)
		return
	}
	f.state = to
	f.history = append(f.history, to)
	utils.LogDebug("Flow %s: %s -> %s", f.id, from, to)
	if to.Terminal() {
		close(f.done)
	}
}

func (f *Flow) fail(to State, err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	f.transition(to)
}

func (f *Flow) setAmount(a decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amount = a
}

func (f *Flow) setOrder(desc models.OrderDescriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = &desc
}

// deliver posts the widget callback into the flow's mailbox. Only the first
// callback is kept.
func (f *Flow) deliver(resp checkout.PaymentResponse) bool {
	accepted := false
	f.delivered.Do(func() {
		f.callback <- resp
		accepted = true
	})
	return accepted
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
