package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRedeemCredentialCommandIsNotConstructed = errors.New(
	"RedeemCredentialCommand must be created via NewRedeemCredentialCommand constructor",
)

// RedeemCredentialCommand represents the hand-off moment: the actor present
// at the exchange submits the customer's confirmation code to mark the
// sub-order delivered. Code equality plus expiry is the sole authorization
// check, so anyone holding a valid code can redeem it.
type RedeemCredentialCommand struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID
	code       string

	guard guard.ConstructorGuard
}

// NewRedeemCredentialCommand creates a command to redeem a confirmation code.
func NewRedeemCredentialCommand(subOrderID kernel.UUID, code string) (RedeemCredentialCommand, error) {
	command := RedeemCredentialCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSubOrderID(subOrderID),
		command.setCode(code),
	); err != nil {
		return RedeemCredentialCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RedeemCredentialCommand) Validate() error {
	return c.guard.Validate(ErrRedeemCredentialCommandIsNotConstructed)
}

// SubOrderID returns the sub-order being confirmed.
func (c RedeemCredentialCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

// Code returns the submitted confirmation code.
func (c RedeemCredentialCommand) Code() string {
	return c.code
}

func (c *RedeemCredentialCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}

func (c *RedeemCredentialCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("confirmation code")
	}

	c.code = code
	return nil
}
