package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// LineItem is an immutable snapshot of one purchased catalog item: name,
// unit price, and quantity frozen at order placement. Sub-orders keep these
// snapshots so they stay valid even if the live catalog entry later changes
// or is deleted.
type LineItem struct {
	name     string
	price    kernel.Money
	quantity int

	isConstructed bool
}

// NewLineItem creates a line item snapshot with validation.
func NewLineItem(name string, price kernel.Money, quantity int) (LineItem, error) {
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("line item name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return LineItem{
		name:          name,
		price:         price,
		quantity:      quantity,
		isConstructed: true,
	}, nil
}

// Name returns the item name as snapshotted at placement.
func (li LineItem) Name() string {
	return li.name
}

// Price returns the unit price as snapshotted at placement.
func (li LineItem) Price() kernel.Money {
	return li.price
}

// Quantity returns the purchased quantity.
func (li LineItem) Quantity() int {
	return li.quantity
}

// Total returns price multiplied by quantity.
func (li LineItem) Total() kernel.Money {
	return li.price.Mul(int64(li.quantity))
}

// Validate ensures the line item was created via NewLineItem.
func (li LineItem) Validate() error {
	if !li.isConstructed {
		return errs.NewValueIsRequiredError("line item must be created via NewLineItem")
	}
	return nil
}
