package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptJobCommandIsNotConstructed = errors.New(
	"AcceptJobCommand must be created via NewAcceptJobCommand constructor",
)

// AcceptJobCommand represents a worker claiming a broadcast delivery job.
type AcceptJobCommand struct { //nolint:recvcheck //using for validation
	workerID kernel.UUID
	jobID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptJobCommand creates a command for a worker to claim a job.
func NewAcceptJobCommand(workerID, jobID kernel.UUID) (AcceptJobCommand, error) {
	command := AcceptJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setWorkerID(workerID),
		command.setJobID(jobID),
	); err != nil {
		return AcceptJobCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptJobCommand) Validate() error {
	return c.guard.Validate(ErrAcceptJobCommandIsNotConstructed)
}

// WorkerID returns the claiming worker's identifier.
func (c AcceptJobCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// JobID returns the job being claimed.
func (c AcceptJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c *AcceptJobCommand) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	c.workerID = workerID
	return nil
}

func (c *AcceptJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}
