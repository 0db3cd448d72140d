package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrDeliveryAddressIsRequired = errors.New("delivery address is required for delivery orders")
	ErrNoItemsProvided           = errors.New("at least one item is required")
)

// OrderItemSpec is one cart line as submitted by the customer: the price is
// what the catalog showed at submit time and is frozen into the sub-order.
type OrderItemSpec struct {
	Name       string
	PriceCents int64
	Quantity   int
}

// SubOrderSpec is one shop's portion of the cart.
type SubOrderSpec struct {
	ShopID  kernel.UUID
	OwnerID kernel.UUID
	Items   []OrderItemSpec
}

// PlaceOrderCommand represents a customer submitting their cart, already
// grouped per shop. Every group becomes one sub-order of the new order.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(
//	    kernel.NewUUID(), customerID,
//	    order.PaymentCash, order.TypeDelivery,
//	    "12 Baker Street", location, "ring twice",
//	    groups,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	customerID          kernel.UUID
	paymentMethod       order.PaymentMethod
	orderType           order.OrderType
	deliveryAddress     string
	deliveryLocation    kernel.Location
	specialInstructions string
	subOrders           []SubOrderSpec

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order. Validates the
// identifiers, the payment method and order type, the address requirement for
// delivery orders, and that every shop group carries at least one item.
func NewPlaceOrderCommand(
	orderID, customerID kernel.UUID,
	paymentMethod order.PaymentMethod,
	orderType order.OrderType,
	deliveryAddress string,
	deliveryLocation kernel.Location,
	specialInstructions string,
	subOrders []SubOrderSpec,
) (PlaceOrderCommand, error) {
	command := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCustomerID(customerID),
		command.setPaymentMethod(paymentMethod),
		command.setOrderType(orderType),
		command.setSubOrders(subOrders),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	if orderType == order.TypeDelivery && deliveryAddress == "" {
		return PlaceOrderCommand{}, ErrDeliveryAddressIsRequired
	}

	command.deliveryAddress = deliveryAddress
	command.deliveryLocation = deliveryLocation
	command.specialInstructions = specialInstructions

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will get.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the purchasing customer's identifier.
func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PaymentMethod returns how the order will be paid.
func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// OrderType returns whether the order is delivered or picked up.
func (c PlaceOrderCommand) OrderType() order.OrderType {
	return c.orderType
}

// DeliveryAddress returns the free-text delivery address.
func (c PlaceOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// DeliveryLocation returns the delivery coordinates, if captured.
func (c PlaceOrderCommand) DeliveryLocation() kernel.Location {
	return c.deliveryLocation
}

// SpecialInstructions returns the free-text delivery instructions.
func (c PlaceOrderCommand) SpecialInstructions() string {
	return c.specialInstructions
}

// SubOrders returns the per-shop cart groups.
func (c PlaceOrderCommand) SubOrders() []SubOrderSpec {
	return c.subOrders
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}

	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setPaymentMethod(paymentMethod order.PaymentMethod) error {
	if err := paymentMethod.Validate(); err != nil {
		return err
	}

	c.paymentMethod = paymentMethod
	return nil
}

func (c *PlaceOrderCommand) setOrderType(orderType order.OrderType) error {
	if err := orderType.Validate(); err != nil {
		return err
	}

	c.orderType = orderType
	return nil
}

func (c *PlaceOrderCommand) setSubOrders(subOrders []SubOrderSpec) error {
	if len(subOrders) == 0 {
		return errs.NewValueIsRequiredError("subOrders")
	}

	for _, spec := range subOrders {
		if err := errors.Join(spec.ShopID.Validate(), spec.OwnerID.Validate()); err != nil {
			return err
		}
		if len(spec.Items) == 0 {
			return ErrNoItemsProvided
		}
	}

	c.subOrders = subOrders
	return nil
}
