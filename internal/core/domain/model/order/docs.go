// Package order contains the Order aggregate root and its value objects.
//
// An Order owns one SubOrder per shop participating in the customer's cart.
// The SubOrder is the unit the fulfillment state machine operates on: it
// carries the frozen line item snapshots, the frozen monetary shares, the
// lifecycle status, the receipt snapshot, and the time-bounded confirmation
// credential that authorizes the hand-off.
//
// All mutation is routed through Order methods so the aggregate enforces its
// invariants atomically: monotonic status transitions, single order number
// assignment, immutable receipts, and credential presence only during the
// delivery-in-progress window.
package order
