package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// OrderType distinguishes orders brought to the customer by a worker from
// orders the customer collects at the shop. Pickup orders never enter the
// dispatch flow.
type OrderType string

const (
	// TypeDelivery orders are handed off by a dispatched worker.
	TypeDelivery OrderType = "delivery"

	// TypePickup orders are collected by the customer at the shop.
	TypePickup OrderType = "pickup"
)

// OrderTypeFromString parses an order type from its wire representation.
func OrderTypeFromString(s string) (OrderType, error) {
	switch OrderType(s) {
	case TypeDelivery, TypePickup:
		return OrderType(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%q is not a valid order type", s))
	}
}

// Validate checks the order type is one of the defined values.
func (t OrderType) Validate() error {
	switch t {
	case TypeDelivery, TypePickup:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%q is not a valid order type", string(t)))
	}
}

// PaymentMethod identifies how the customer pays for an order. Online
// payments require an external gateway reference before the order is stored.
type PaymentMethod string

const (
	// PaymentCash is settled in person at hand-off.
	PaymentCash PaymentMethod = "cash"

	// PaymentOnline is settled through the external payment gateway.
	PaymentOnline PaymentMethod = "online"
)

// PaymentMethodFromString parses a payment method from its wire representation.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentOnline:
		return PaymentMethod(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%q is not a valid payment method", s))
	}
}

// Validate checks the payment method is one of the defined values.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCash, PaymentOnline:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%q is not a valid payment method", string(m)))
	}
}
