package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a sub-order.
// It implements a state machine with defined transitions to ensure
// sub-orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> OutForDelivery ──> Delivered
//	   │             │             │
//	   ├──> Rejected ┴─────────────┘
//	   └──> Cancelled (customer cancellation path only)
//
// Once a sub-order reaches OutForDelivery, Rejected, Delivered, or Cancelled
// its status is locked: the only accepted transition is an idempotent
// re-application of the same status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when a sub-order is first created.
	// Sub-orders in this status are waiting for the shop to respond.
	Pending

	// Confirmed indicates the shop has accepted the sub-order.
	Confirmed

	// Preparing indicates the shop is working on the sub-order.
	Preparing

	// OutForDelivery indicates a delivery worker is being dispatched or is
	// en route. Locked: no further transition except Delivered via credential
	// redemption.
	OutForDelivery

	// Delivered indicates the hand-off has been confirmed. Final state.
	Delivered

	// Rejected indicates the shop declined the sub-order. Final state.
	Rejected

	// Cancelled indicates the customer cancelled before confirmation.
	// Final state, reachable only through the order cancellation path.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Rejected:       "rejected",
		Cancelled:      "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Rejected:       "rejected",
		Cancelled:      "cancelled",
	}
}

// StatusFromString parses a status from its wire representation.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status is a final state with no outgoing
// transitions at all.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Rejected || s == Cancelled
}

// IsLocked reports whether the status refuses generic transition requests.
// OutForDelivery is locked even though it is not terminal: it can only be
// left through credential redemption, which advances to Delivered directly.
func (s Status) IsLocked() bool {
	return s == OutForDelivery || s.IsTerminal()
}

// TriggersFulfillment reports whether first entry into this status starts the
// fulfillment side effects: order number allocation and receipt generation.
func (s Status) TriggersFulfillment() bool {
	return s == Confirmed || s == Preparing || s == OutForDelivery
}

// Transition validates a generic status-change request and returns the new
// status. Idempotent re-application of the current status is allowed and
// returns the same status.
//
// Rules enforced here:
//   - locked statuses accept only their own re-application
//   - Cancelled is never reachable through the generic path
//
// Order-level guards (pickup orders never entering OutForDelivery, the
// cancellation flag) are enforced by the Order aggregate.
func (s Status) Transition(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if target == s {
		return s, nil
	}

	if s.IsLocked() {
		return Unknown, fmt.Errorf("%w: status is locked at %q, requested %q",
			ErrInvalidTransition, s, target)
	}

	if target == Cancelled {
		return Unknown, fmt.Errorf("%w: %q is only reachable through order cancellation",
			ErrInvalidTransition, target)
	}

	return target, nil
}
