package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateSpecialInstructionsCommandIsNotConstructed = errors.New(
	"UpdateSpecialInstructionsCommand must be created via NewUpdateSpecialInstructionsCommand constructor",
)

// UpdateSpecialInstructionsCommand represents a customer replacing the
// free-text delivery instructions on an order that is still being worked on.
type UpdateSpecialInstructionsCommand struct { //nolint:recvcheck //using for validation
	actorID      kernel.UUID
	orderID      kernel.UUID
	instructions string

	guard guard.ConstructorGuard
}

// NewUpdateSpecialInstructionsCommand creates a command to replace an order's
// delivery instructions. Empty instructions clear the current text.
func NewUpdateSpecialInstructionsCommand(
	actorID, orderID kernel.UUID, instructions string,
) (UpdateSpecialInstructionsCommand, error) {
	command := UpdateSpecialInstructionsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setActorID(actorID),
		command.setOrderID(orderID),
	); err != nil {
		return UpdateSpecialInstructionsCommand{}, err
	}

	command.instructions = instructions
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateSpecialInstructionsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateSpecialInstructionsCommandIsNotConstructed)
}

// ActorID returns the identifier of the customer making the request.
func (c UpdateSpecialInstructionsCommand) ActorID() kernel.UUID {
	return c.actorID
}

// OrderID returns the order whose instructions change.
func (c UpdateSpecialInstructionsCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Instructions returns the new instruction text, possibly empty.
func (c UpdateSpecialInstructionsCommand) Instructions() string {
	return c.instructions
}

func (c *UpdateSpecialInstructionsCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *UpdateSpecialInstructionsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
