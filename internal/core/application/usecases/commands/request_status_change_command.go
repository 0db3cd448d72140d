package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestStatusChangeCommandIsNotConstructed = errors.New(
	"RequestStatusChangeCommand must be created via NewRequestStatusChangeCommand constructor",
)

// RequestStatusChangeCommand represents a shop owner moving one of their
// sub-orders along the fulfillment lifecycle.
type RequestStatusChangeCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UUID
	subOrderID kernel.UUID
	target     order.Status

	guard guard.ConstructorGuard
}

// NewRequestStatusChangeCommand creates a command to change a sub-order's
// status. The actor is the shop owner making the request; ownership is
// checked by the handler against the loaded aggregate.
func NewRequestStatusChangeCommand(
	actorID, subOrderID kernel.UUID,
	target order.Status,
) (RequestStatusChangeCommand, error) {
	command := RequestStatusChangeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setActorID(actorID),
		command.setSubOrderID(subOrderID),
		command.setTarget(target),
	); err != nil {
		return RequestStatusChangeCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestStatusChangeCommand) Validate() error {
	return c.guard.Validate(ErrRequestStatusChangeCommandIsNotConstructed)
}

// ActorID returns the identifier of the shop owner making the request.
func (c RequestStatusChangeCommand) ActorID() kernel.UUID {
	return c.actorID
}

// SubOrderID returns the sub-order to move.
func (c RequestStatusChangeCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

// Target returns the requested status.
func (c RequestStatusChangeCommand) Target() order.Status {
	return c.target
}

func (c *RequestStatusChangeCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *RequestStatusChangeCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}

func (c *RequestStatusChangeCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
