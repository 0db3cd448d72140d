package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrRegenerateCredentialsCommandIsNotConstructed = errors.New(
	"RegenerateCredentialsCommand must be created via NewRegenerateCredentialsCommand constructor",
)

// RegenerateCredentialsCommand represents the periodic sweep that replaces
// expired confirmation codes on deliveries still in progress. It carries no
// parameters; the handler finds the stale sub-orders itself.
type RegenerateCredentialsCommand struct {
	guard guard.ConstructorGuard
}

// NewRegenerateCredentialsCommand creates a command to refresh stale codes.
func NewRegenerateCredentialsCommand() RegenerateCredentialsCommand {
	return RegenerateCredentialsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c RegenerateCredentialsCommand) Validate() error {
	return c.guard.Validate(ErrRegenerateCredentialsCommandIsNotConstructed)
}
