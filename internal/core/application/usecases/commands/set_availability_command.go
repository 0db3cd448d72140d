package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSetAvailabilityCommandIsNotConstructed = errors.New(
	"SetAvailabilityCommand must be created via NewSetAvailabilityCommand constructor",
)

// SetAvailabilityCommand represents a worker going on or off duty.
type SetAvailabilityCommand struct { //nolint:recvcheck //using for validation
	workerID  kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

// NewSetAvailabilityCommand creates a command to flip a worker's availability.
func NewSetAvailabilityCommand(workerID kernel.UUID, available bool) (SetAvailabilityCommand, error) {
	command := SetAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setWorkerID(workerID); err != nil {
		return SetAvailabilityCommand{}, err
	}

	command.available = available
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SetAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAvailabilityCommandIsNotConstructed)
}

// WorkerID returns the worker whose availability changes.
func (c SetAvailabilityCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Available returns the requested availability state.
func (c SetAvailabilityCommand) Available() bool {
	return c.available
}

func (c *SetAvailabilityCommand) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	c.workerID = workerID
	return nil
}
