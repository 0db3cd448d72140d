package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand represents the customer reporting a captured online
// payment, carrying the reference the gateway returned on capture.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	actorID          kernel.UUID
	orderID          kernel.UUID
	paymentReference string

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command to record a captured payment.
func NewConfirmPaymentCommand(
	actorID, orderID kernel.UUID, paymentReference string,
) (ConfirmPaymentCommand, error) {
	command := ConfirmPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setActorID(actorID),
		command.setOrderID(orderID),
		command.setPaymentReference(paymentReference),
	); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// ActorID returns the identifier of the customer making the request.
func (c ConfirmPaymentCommand) ActorID() kernel.UUID {
	return c.actorID
}

// OrderID returns the order the payment settles.
func (c ConfirmPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PaymentReference returns the gateway's capture reference.
func (c ConfirmPaymentCommand) PaymentReference() string {
	return c.paymentReference
}

func (c *ConfirmPaymentCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *ConfirmPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmPaymentCommand) setPaymentReference(paymentReference string) error {
	if paymentReference == "" {
		return errs.NewValueIsRequiredError("paymentReference")
	}

	c.paymentReference = paymentReference
	return nil
}
