package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Receipt is an immutable record of a sub-order frozen at its first
// confirmation-stage transition: receipt number, line items, and subtotal.
// Once generated it is never overwritten.
type Receipt struct {
	number      string
	generatedAt time.Time
	items       []LineItem
	subtotal    kernel.Money

	isConstructed bool
}

// NewReceipt creates a receipt snapshot. The item slice is copied so later
// mutation of the source cannot reach the frozen record.
func NewReceipt(number string, generatedAt time.Time, items []LineItem, subtotal kernel.Money) (Receipt, error) {
	if number == "" {
		return Receipt{}, errs.NewValueIsRequiredError("receipt number")
	}

	snapshot := make([]LineItem, len(items))
	copy(snapshot, items)

	return Receipt{
		number:        number,
		generatedAt:   generatedAt,
		items:         snapshot,
		subtotal:      subtotal,
		isConstructed: true,
	}, nil
}

// receiptNumber builds the human-facing receipt number from the order number
// and the tail of the sub-order identifier.
func receiptNumber(orderNumber *int64, subOrderID kernel.UUID) string {
	seq := "NA"
	if orderNumber != nil {
		seq = fmt.Sprintf("%d", *orderNumber)
	}
	id := subOrderID.String()
	return fmt.Sprintf("R-%s-%s", seq, id[len(id)-6:])
}

// Number returns the human-facing receipt number.
func (r Receipt) Number() string {
	return r.number
}

// GeneratedAt returns the time the receipt was frozen.
func (r Receipt) GeneratedAt() time.Time {
	return r.generatedAt
}

// Items returns a copy of the frozen item snapshot.
func (r Receipt) Items() []LineItem {
	items := make([]LineItem, len(r.items))
	copy(items, r.items)
	return items
}

// Subtotal returns the frozen subtotal.
func (r Receipt) Subtotal() kernel.Money {
	return r.subtotal
}

// Validate ensures the receipt was created via NewReceipt.
func (r Receipt) Validate() error {
	if !r.isConstructed {
		return errs.NewValueIsRequiredError("receipt must be created via NewReceipt")
	}
	return nil
}
