package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Revenue split percentages, derived once at creation and frozen on the
// sub-order regardless of later rate changes.
const (
	ownerSharePercent  = 70
	workerSharePercent = 80
	platformFeePercent = 20
	paymentFeePercent  = 2
)

// Shares holds the frozen monetary split of a sub-order subtotal between the
// shop owner, the delivery worker, the platform, and the payment processor.
type Shares struct {
	Owner      kernel.Money
	Worker     kernel.Money
	Platform   kernel.Money
	PaymentFee kernel.Money
}

// deriveShares computes the frozen revenue split from a subtotal.
func deriveShares(subtotal kernel.Money) Shares {
	return Shares{
		Owner:      subtotal.Share(ownerSharePercent),
		Worker:     subtotal.Share(workerSharePercent),
		Platform:   subtotal.Share(platformFeePercent),
		PaymentFee: subtotal.Share(paymentFeePercent),
	}
}

// SubOrder is the per-shop portion of a customer order and the unit the
// fulfillment state machine and dispatch operate on. It is a child entity of
// the Order aggregate: all mutation goes through Order methods so invariants
// are enforced at the root.
type SubOrder struct {
	id       kernel.UUID
	shopID   kernel.UUID
	ownerID  kernel.UUID
	items    []LineItem
	subtotal kernel.Money
	shares   Shares
	status   Status

	assignedWorkerID *kernel.UUID
	dispatchJobID    *kernel.UUID
	credential       *Credential
	deliveredAt      *time.Time
	receipt          *Receipt

	isConstructed bool
}

// NewSubOrder creates a pending sub-order for one shop's portion of the cart.
// The subtotal and monetary shares are derived from the item snapshots here
// and never recomputed.
func NewSubOrder(id, shopID, ownerID kernel.UUID, items []LineItem) (*SubOrder, error) {
	if err := errors.Join(id.Validate(), shopID.Validate(), ownerID.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("sub-order items")
	}

	subtotal, err := kernel.NewMoney(0)
	if err != nil {
		return nil, err
	}
	snapshot := make([]LineItem, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		snapshot = append(snapshot, item)
		subtotal = subtotal.Add(item.Total())
	}

	return &SubOrder{
		id:            id,
		shopID:        shopID,
		ownerID:       ownerID,
		items:         snapshot,
		subtotal:      subtotal,
		shares:        deriveShares(subtotal),
		status:        Pending,
		isConstructed: true,
	}, nil
}

// RestoreSubOrder reconstructs a sub-order from persistence without deriving
// anything: the stored subtotal and shares are authoritative snapshots.
func RestoreSubOrder(
	id, shopID, ownerID kernel.UUID,
	items []LineItem,
	subtotal kernel.Money,
	shares Shares,
	status Status,
	assignedWorkerID, dispatchJobID *kernel.UUID,
	credential *Credential,
	deliveredAt *time.Time,
	receipt *Receipt,
) (*SubOrder, error) {
	if err := errors.Join(id.Validate(), shopID.Validate(), ownerID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &SubOrder{
		id:               id,
		shopID:           shopID,
		ownerID:          ownerID,
		items:            items,
		subtotal:         subtotal,
		shares:           shares,
		status:           status,
		assignedWorkerID: assignedWorkerID,
		dispatchJobID:    dispatchJobID,
		credential:       credential,
		deliveredAt:      deliveredAt,
		receipt:          receipt,
		isConstructed:    true,
	}, nil
}

// ID returns the sub-order's unique identifier.
func (so *SubOrder) ID() kernel.UUID {
	return so.id
}

// ShopID returns the fulfillment location reference.
func (so *SubOrder) ShopID() kernel.UUID {
	return so.shopID
}

// OwnerID returns the shop owner reference.
func (so *SubOrder) OwnerID() kernel.UUID {
	return so.ownerID
}

// Items returns a copy of the frozen line item snapshots.
func (so *SubOrder) Items() []LineItem {
	items := make([]LineItem, len(so.items))
	copy(items, so.items)
	return items
}

// Subtotal returns the frozen subtotal.
func (so *SubOrder) Subtotal() kernel.Money {
	return so.subtotal
}

// Shares returns the frozen revenue split.
func (so *SubOrder) Shares() Shares {
	return so.shares
}

// Status returns the current lifecycle status.
func (so *SubOrder) Status() Status {
	return so.status
}

// AssignedWorker returns the accepted worker's ID, or nil before acceptance.
func (so *SubOrder) AssignedWorker() *kernel.UUID {
	return so.assignedWorkerID
}

// DispatchJob returns the active dispatch job reference, or nil.
func (so *SubOrder) DispatchJob() *kernel.UUID {
	return so.dispatchJobID
}

// Credential returns the live confirmation credential, or nil outside the
// delivery-in-progress window.
func (so *SubOrder) Credential() *Credential {
	return so.credential
}

// DeliveredAt returns the confirmed hand-off time, or nil.
func (so *SubOrder) DeliveredAt() *time.Time {
	return so.deliveredAt
}

// Receipt returns the frozen receipt snapshot, or nil before first
// confirmation-stage transition.
func (so *SubOrder) Receipt() *Receipt {
	return so.receipt
}

// Validate ensures the sub-order was created through a constructor.
func (so *SubOrder) Validate() error {
	if so == nil || !so.isConstructed {
		return ErrSubOrderIsNotConstructed
	}
	return nil
}

// needsCredentialRefresh reports whether the regeneration job should mint a
// fresh code: out for delivery, not delivered, and no valid code.
func (so *SubOrder) needsCredentialRefresh(now time.Time) bool {
	if so.status != OutForDelivery || so.deliveredAt != nil {
		return false
	}
	return so.credential == nil || !so.credential.IsValid(now)
}
