package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
)

// GetCustomerOrdersQuery retrieves one customer's orders with the live
// fulfillment state of every sub-order, including the confirmation code
// while a delivery is in progress.
type GetCustomerOrdersQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates a query for one customer's orders.
func NewGetCustomerOrdersQuery(customerID kernel.UUID) (GetCustomerOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, err
	}

	return GetCustomerOrdersQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// CustomerID returns the customer whose orders are requested.
func (q GetCustomerOrdersQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCustomerOrdersQueryIsNotConstructed if validation fails.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

// CustomerSubOrderResponse is the per-shop slice of an order as the customer
// sees it. ConfirmationCode and CodeExpiresAt are populated only while the
// sub-order is out for delivery with an unexpired credential.
type CustomerSubOrderResponse struct {
	SubOrderID       kernel.UUID
	ShopID           kernel.UUID
	Status           string
	SubtotalCents    int64
	ReceiptNumber    string
	ConfirmationCode string
	CodeExpiresAt    *time.Time
	DeliveredAt      *time.Time
}

// GetCustomerOrdersQueryResponse represents one order with its sub-orders.
// OrderNumber is nil until the first shop confirmation allocates one.
type GetCustomerOrdersQueryResponse struct {
	OrderID     kernel.UUID
	OrderNumber *int64
	OrderType   string
	TotalCents  int64
	IsCancelled bool
	SubOrders   []CustomerSubOrderResponse
}
