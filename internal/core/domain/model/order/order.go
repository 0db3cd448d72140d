package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrSubOrderIsNotConstructed is returned when a SubOrder was not created
	// through NewSubOrder or RestoreSubOrder.
	ErrSubOrderIsNotConstructed = errors.New("SubOrder must be created via NewSubOrder constructor")

	// ErrInvalidTransition is returned when a status-change request violates
	// the lifecycle guards: locked status, cancellation outside its path, or
	// a pickup order sent out for delivery.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderAlreadyCancelled is returned when cancellation is requested on
	// an order whose cancellation flag is already set.
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")

	// ErrOrderNumberAssigned is returned on an attempt to overwrite an
	// already assigned order number.
	ErrOrderNumberAssigned = errors.New("order number is already assigned")

	// ErrInvalidOrExpiredCredential is returned when redemption is attempted
	// with a missing, mismatched, or expired confirmation code.
	ErrInvalidOrExpiredCredential = errors.New("invalid or expired confirmation code")
)

// Order is the aggregate root for a customer purchase. It owns one sub-order
// per shop participating in the cart and routes all sub-order mutation
// through root-level methods so the lifecycle invariants hold atomically.
//
// Invariants:
//   - The order number is assigned at most once and never changes.
//   - Sub-order statuses move only along the allowed graph; locked statuses
//     accept only idempotent re-application.
//   - A pickup order never enters OutForDelivery.
//   - A receipt, once generated, is never overwritten.
//   - Confirmation credential fields are set only during the
//     delivery-in-progress window.
type Order struct {
	id                  kernel.UUID
	number              *int64
	customerID          kernel.UUID
	paymentMethod       PaymentMethod
	orderType           OrderType
	deliveryAddress     string
	deliveryLocation    kernel.Location
	totalAmount         kernel.Money
	paymentReference    string
	paid                bool
	isCancelled         bool
	cancellationReason  string
	cancelledAt         *time.Time
	specialInstructions string
	subOrders           []*SubOrder

	isConstructed bool
}

// NewOrder creates an order with its sub-orders, all in Pending status.
// Delivery orders must carry a delivery address; pickup orders need none.
func NewOrder(
	id, customerID kernel.UUID,
	paymentMethod PaymentMethod,
	orderType OrderType,
	deliveryAddress string,
	deliveryLocation kernel.Location,
	totalAmount kernel.Money,
	specialInstructions string,
	subOrders []*SubOrder,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		paymentMethod.Validate(),
		orderType.Validate(),
	); err != nil {
		return nil, err
	}
	if orderType == TypeDelivery && deliveryAddress == "" {
		return nil, errs.NewValueIsRequiredError("delivery address")
	}
	if len(subOrders) == 0 {
		return nil, errs.NewValueIsRequiredError("sub-orders")
	}
	for _, so := range subOrders {
		if err := so.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:                  id,
		customerID:          customerID,
		paymentMethod:       paymentMethod,
		orderType:           orderType,
		deliveryAddress:     deliveryAddress,
		deliveryLocation:    deliveryLocation,
		totalAmount:         totalAmount,
		specialInstructions: specialInstructions,
		subOrders:           subOrders,
		isConstructed:       true,
	}, nil
}

// RestoreOrder reconstructs an order aggregate from persistence.
func RestoreOrder(
	id kernel.UUID,
	number *int64,
	customerID kernel.UUID,
	paymentMethod PaymentMethod,
	orderType OrderType,
	deliveryAddress string,
	deliveryLocation kernel.Location,
	totalAmount kernel.Money,
	paymentReference string,
	paid bool,
	isCancelled bool,
	cancellationReason string,
	cancelledAt *time.Time,
	specialInstructions string,
	subOrders []*SubOrder,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		paymentMethod.Validate(),
		orderType.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:                  id,
		number:              number,
		customerID:          customerID,
		paymentMethod:       paymentMethod,
		orderType:           orderType,
		deliveryAddress:     deliveryAddress,
		deliveryLocation:    deliveryLocation,
		totalAmount:         totalAmount,
		paymentReference:    paymentReference,
		paid:                paid,
		isCancelled:         isCancelled,
		cancellationReason:  cancellationReason,
		cancelledAt:         cancelledAt,
		specialInstructions: specialInstructions,
		subOrders:           subOrders,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-facing sequential order number, or nil before the
// first fulfillment-triggering transition.
func (o *Order) Number() *int64 {
	return o.number
}

// CustomerID returns the purchasing customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Type returns whether the order is delivered or picked up.
func (o *Order) Type() OrderType {
	return o.orderType
}

// DeliveryAddress returns the free-text delivery address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryLocation returns the delivery coordinates; the zero value means
// none were captured.
func (o *Order) DeliveryLocation() kernel.Location {
	return o.deliveryLocation
}

// TotalAmount returns the order total.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// PaymentReference returns the external gateway reference for online orders.
func (o *Order) PaymentReference() string {
	return o.paymentReference
}

// IsPaid reports whether an online payment has been captured.
func (o *Order) IsPaid() bool {
	return o.paid
}

// AttachPaymentReference stores the gateway reference created for an online
// payment before capture.
func (o *Order) AttachPaymentReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("payment reference")
	}
	o.paymentReference = reference
	return nil
}

// MarkPaid records a captured online payment with its gateway reference.
func (o *Order) MarkPaid(paymentReference string) {
	o.paid = true
	if paymentReference != "" {
		o.paymentReference = paymentReference
	}
}

// IsCancelled reports whether the order-wide cancellation flag is set.
func (o *Order) IsCancelled() bool {
	return o.isCancelled
}

// CancellationReason returns the customer's stated reason, if any.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// CancelledAt returns when the order was cancelled, or nil.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// SpecialInstructions returns the free-text delivery instructions.
func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

// UpdateSpecialInstructions replaces the delivery instructions. Allowed only
// while at least one sub-order is still pending or preparing.
func (o *Order) UpdateSpecialInstructions(instructions string) error {
	for _, so := range o.subOrders {
		if so.status == Pending || so.status == Preparing {
			o.specialInstructions = instructions
			return nil
		}
	}
	return fmt.Errorf("%w: no sub-order is pending or preparing", ErrInvalidTransition)
}

// SubOrders returns the aggregate's sub-orders. The slice must not be
// mutated by callers; mutation goes through root methods.
func (o *Order) SubOrders() []*SubOrder {
	return o.subOrders
}

// SubOrder finds a child sub-order by ID.
func (o *Order) SubOrder(subOrderID kernel.UUID) (*SubOrder, error) {
	for _, so := range o.subOrders {
		if so.id.IsEqual(subOrderID) {
			return so, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("subOrder", subOrderID.String())
}

// AssignNumber sets the sequential order number exactly once.
func (o *Order) AssignNumber(number int64) error {
	if o.number != nil {
		return ErrOrderNumberAssigned
	}
	o.number = &number
	return nil
}

// ChangeSubOrderStatus applies a guarded lifecycle transition to one
// sub-order. Returns the sub-order and whether its status actually changed
// (idempotent re-application of the current status reports false).
//
// Side effects applied here:
//   - first entry into a fulfillment-triggering status freezes the receipt
//     snapshot if none exists yet
//   - a pickup order entering Delivered stamps the hand-off time and clears
//     stale worker and dispatch references
//
// Side effects that need collaborators (order number allocation, dispatch job
// creation, credential issuance) are orchestrated by the command handler
// after this method succeeds.
func (o *Order) ChangeSubOrderStatus(subOrderID kernel.UUID, target Status, now time.Time) (*SubOrder, bool, error) {
	if o.isCancelled {
		return nil, false, fmt.Errorf("%w: order is cancelled", ErrInvalidTransition)
	}

	so, err := o.SubOrder(subOrderID)
	if err != nil {
		return nil, false, err
	}

	if target == OutForDelivery && o.orderType == TypePickup {
		return nil, false, fmt.Errorf("%w: pickup orders do not go out for delivery", ErrInvalidTransition)
	}

	next, err := so.status.Transition(target)
	if err != nil {
		return nil, false, err
	}
	if next == so.status {
		return so, false, nil
	}

	so.status = next

	if next.TriggersFulfillment() && so.receipt == nil {
		receipt, rErr := NewReceipt(receiptNumber(o.number, so.id), now, so.items, so.subtotal)
		if rErr != nil {
			return nil, false, rErr
		}
		so.receipt = &receipt
	}

	if next == Delivered && o.orderType == TypePickup {
		deliveredAt := now
		so.deliveredAt = &deliveredAt
		so.assignedWorkerID = nil
		so.dispatchJobID = nil
	}

	return so, true, nil
}

// Cancel applies the customer-initiated cancellation path: allowed only while
// every sub-order is still pending and the flag is not already set. All
// sub-orders move to Cancelled.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.isCancelled {
		return ErrOrderAlreadyCancelled
	}
	for _, so := range o.subOrders {
		if so.status != Pending {
			return fmt.Errorf("%w: sub-order %s is %s, only pending orders can be cancelled",
				ErrInvalidTransition, so.id, so.status)
		}
	}

	o.isCancelled = true
	o.cancellationReason = reason
	cancelledAt := now
	o.cancelledAt = &cancelledAt
	for _, so := range o.subOrders {
		so.status = Cancelled
	}

	return nil
}

// AttachDispatchJob records the active dispatch job on a sub-order.
func (o *Order) AttachDispatchJob(subOrderID, jobID kernel.UUID) error {
	so, err := o.SubOrder(subOrderID)
	if err != nil {
		return err
	}
	if err := jobID.Validate(); err != nil {
		return err
	}

	so.dispatchJobID = &jobID
	return nil
}

// AssignWorker records the worker who won the dispatch job for a sub-order.
func (o *Order) AssignWorker(subOrderID, workerID kernel.UUID) error {
	so, err := o.SubOrder(subOrderID)
	if err != nil {
		return err
	}
	if err := workerID.Validate(); err != nil {
		return err
	}

	so.assignedWorkerID = &workerID
	return nil
}

// IssueCredential mints a confirmation credential for a sub-order, or returns
// the existing one unchanged while it is still valid. The idempotence keeps
// repeated "resend" requests from invalidating a code already shown to a
// worker. Reports whether a fresh code was minted.
func (o *Order) IssueCredential(subOrderID kernel.UUID, code string, now time.Time) (Credential, bool, error) {
	so, err := o.SubOrder(subOrderID)
	if err != nil {
		return Credential{}, false, err
	}
	if so.status == Delivered {
		return Credential{}, false, fmt.Errorf("%w: sub-order is already delivered", ErrInvalidTransition)
	}

	if so.credential != nil && so.credential.IsValid(now) {
		return *so.credential, false, nil
	}

	credential, err := NewCredential(code, now)
	if err != nil {
		return Credential{}, false, err
	}
	so.credential = &credential

	return credential, true, nil
}

// RedeemCredential checks the candidate code against the stored credential
// and, on success, advances the sub-order to Delivered, stamps the hand-off
// time, clears the credential, and detaches the dispatch job. The code
// equality check is the sole authorization boundary.
func (o *Order) RedeemCredential(subOrderID kernel.UUID, candidate string, now time.Time) error {
	so, err := o.SubOrder(subOrderID)
	if err != nil {
		return err
	}

	if so.credential == nil || !so.credential.Matches(candidate, now) {
		return ErrInvalidOrExpiredCredential
	}

	so.status = Delivered
	deliveredAt := now
	so.deliveredAt = &deliveredAt
	so.credential = nil
	so.dispatchJobID = nil

	return nil
}

// SubOrdersAwaitingCredential returns the sub-orders the regeneration job
// should refresh: out for delivery, not delivered, code missing or expired.
// Sub-orders redeemed concurrently are excluded by their deliveredAt stamp.
func (o *Order) SubOrdersAwaitingCredential(now time.Time) []*SubOrder {
	var stale []*SubOrder
	for _, so := range o.subOrders {
		if so.needsCredentialRefresh(now) {
			stale = append(stale, so)
		}
	}
	return stale
}
