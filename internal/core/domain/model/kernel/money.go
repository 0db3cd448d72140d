package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a value object holding a monetary amount in minor currency units
// (cents). Amounts are non-negative; arithmetic that would produce a negative
// amount is rejected at construction.
//
// Money is used for order totals, sub-order subtotals, and the frozen
// monetary shares derived at order creation.
type Money struct {
	cents int64
}

// NewMoney creates a Money amount from minor currency units.
// Negative amounts are invalid.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d is negative", cents))
	}
	return Money{cents: cents}, nil
}

// Cents returns the amount in minor currency units.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Mul returns the amount multiplied by a non-negative factor.
func (m Money) Mul(factor int64) Money {
	if factor < 0 {
		factor = 0
	}
	return Money{cents: m.cents * factor}
}

// Share returns the given percentage of the amount, rounded half-up to the
// nearest minor unit. Used to derive the frozen revenue shares (owner share,
// worker share, platform fee, payment-processing fee) at order creation.
func (m Money) Share(percent int64) Money {
	return Money{cents: (m.cents*percent + 50) / 100}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsEqual reports whether two amounts are identical.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String formats the amount in major units for logs and receipts.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
