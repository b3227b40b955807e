package donation

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MinimumAmount is the smallest donation accepted, in rupees
var MinimumAmount = decimal.NewFromInt(10)

// MaximumAmount is the largest donation accepted, in rupees (₹10,00,000)
var MaximumAmount = decimal.NewFromInt(1000000)

// ErrAboveMaximum marks a validation error for an amount over MaximumAmount
var ErrAboveMaximum = errors.New("amount above maximum")

var minorUnitsPerMajor = decimal.NewFromInt(100)

// Bounds on the typed text. Comparing decimals rescales them, so a huge
// exponent would cost 10^exp work before any check could run.
const (
	maxAmountInputLen = 32
	maxAmountExponent = 16
)

// ParseAmount reads a user-typed amount. Anything that is not a finite
// decimal number of reasonable size is rejected.
func ParseAmount(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero, newValidationError("amount is required", nil)
	}
	if len(s) > maxAmountInputLen {
		return decimal.Zero, newValidationError("amount is too long", nil)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, newValidationError("amount is not a number", err)
	}
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, newValidationError("amount is out of range", nil)
	}
	return amount, nil
}

// ValidateAmount returns nil when amount may start a flow
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinimumAmount) {
		return newValidationError("amount below minimum", errors.New(amount.String()+" < "+MinimumAmount.String()))
	}
	if amount.GreaterThan(MaximumAmount) {
		return newValidationError("amount above maximum", ErrAboveMaximum)
	}
	return nil
}

// ToMinorUnits converts rupees to paise, rounding to the nearest paisa.
// amount must have passed ValidateAmount.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).Round(0).IntPart()
}
