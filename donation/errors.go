package donation

import (
	"errors"
	"fmt"
)

// Error kinds. Every flow failure wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrScriptLoad   = errors.New("script load error")
	ErrOrderCreate  = errors.New("order creation error")
	ErrVerification = errors.New("verification error")
)

// User-facing messages
const (
	MsgMinimumAmount      = "Minimum donation amount is ₹10"
	MsgMaximumAmount      = "Maximum donation amount is ₹10,00,000"
	MsgInitializing       = "Initializing payment..."
	MsgScriptLoadFailed   = "Razorpay SDK failed to load. Are you online?"
	MsgOrderFailed        = "Error initiating payment"
	MsgPaymentSuccessful  = "Payment successful: %s"
	MsgVerificationFailed = "Payment verification failed"
)

// FlowError is the terminal error of a flow
type FlowError struct {
	Kind    error
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newValidationError(message string, err error) *FlowError {
	return &FlowError{Kind: ErrValidation, Message: message, Err: err}
}

func newScriptLoadError(url string) *FlowError {
	return &FlowError{Kind: ErrScriptLoad, Message: "could not load " + url}
}

func newOrderCreationError(message string, err error) *FlowError {
	return &FlowError{Kind: ErrOrderCreate, Message: message, Err: err}
}

func newVerificationError(err error) *FlowError {
	return &FlowError{Kind: ErrVerification, Message: "backend did not confirm payment", Err: err}
}
