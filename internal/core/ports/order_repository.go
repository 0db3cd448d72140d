package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Sub-order status and order number writes are conditional: the implementation
// issues single-statement updates guarded by the expected current value, so
// concurrent writers cannot both succeed. A lost race surfaces as
// errs.VersionIsInvalidError (status) or order.ErrOrderNumberAssigned (number).
type OrderRepository interface {
	// Add persists a new order aggregate with all its sub-orders.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists order-level fields (cancellation, payment, instructions).
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves a full order aggregate by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetBySubOrderID retrieves the aggregate owning the given sub-order.
	GetBySubOrderID(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error)

	// UpdateSubOrder writes the current state of one sub-order, conditional on
	// the status the caller observed when loading the aggregate. Returns
	// errs.VersionIsInvalidError when a concurrent writer got there first.
	UpdateSubOrder(ctx context.Context, aggregate *order.Order, subOrderID kernel.UUID, expectedStatus order.Status) error

	// AssignNumber writes the order number, conditional on none being assigned
	// yet. Returns order.ErrOrderNumberAssigned when a concurrent writer
	// already allocated one.
	AssignNumber(ctx context.Context, orderID kernel.UUID, number int64) error

	// GetAwaitingCredentialRefresh retrieves orders holding at least one
	// sub-order that is out for delivery, undelivered, and whose confirmation
	// code is missing or expired at the given time.
	GetAwaitingCredentialRefresh(ctx context.Context, now time.Time) ([]*order.Order, error)
}
