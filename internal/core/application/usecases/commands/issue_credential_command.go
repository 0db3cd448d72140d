package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrIssueCredentialCommandIsNotConstructed = errors.New(
	"IssueCredentialCommand must be created via NewIssueCredentialCommand constructor",
)

// IssueCredentialCommand represents a customer requesting their confirmation
// code for a sub-order, typically because the original message was lost.
// While a previously issued code is still valid the same code is returned.
type IssueCredentialCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UUID
	subOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewIssueCredentialCommand creates a command to issue or re-send a
// confirmation code.
func NewIssueCredentialCommand(actorID, subOrderID kernel.UUID) (IssueCredentialCommand, error) {
	command := IssueCredentialCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setActorID(actorID),
		command.setSubOrderID(subOrderID),
	); err != nil {
		return IssueCredentialCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c IssueCredentialCommand) Validate() error {
	return c.guard.Validate(ErrIssueCredentialCommandIsNotConstructed)
}

// ActorID returns the identifier of the requesting customer.
func (c IssueCredentialCommand) ActorID() kernel.UUID {
	return c.actorID
}

// SubOrderID returns the sub-order the code confirms.
func (c IssueCredentialCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

func (c *IssueCredentialCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *IssueCredentialCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}
