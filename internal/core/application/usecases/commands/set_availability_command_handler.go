package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var ErrNoWorkerFound = errors.New("no worker found")

// SetAvailabilityCommandHandler flips a worker's availability. Turning
// available triggers the late-join scan: the worker is appended to every job
// still broadcasting that has not been offered to them yet, and gets those
// offers replayed over their live connection. Appends are conditional at the
// storage layer, so a job resolved mid-scan is silently skipped.
type SetAvailabilityCommandHandler struct {
	uowFactory WorkerDispatchUoWFactory
	bus        ports.NotificationBus
}

// NewSetAvailabilityCommandHandler creates a handler for availability toggles.
func NewSetAvailabilityCommandHandler(
	uowFactory WorkerDispatchUoWFactory,
	bus ports.NotificationBus,
) SetAvailabilityCommandHandler {
	return SetAvailabilityCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
	}
}

// Handle persists the availability flag and runs the late-join scan on a
// real off-to-on transition. Re-applying the current state is a no-op.
func (h SetAvailabilityCommandHandler) Handle(ctx context.Context, command SetAvailabilityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	workerRepo := uow.WorkerRepository()

	aggregate, err := workerRepo.Get(ctx, command.WorkerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoWorkerFound
	}
	if err != nil {
		return err
	}

	changed := aggregate.SetAvailability(command.Available())
	if !changed {
		return nil
	}

	if err = workerRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	var joined []*dispatch.Job
	if command.Available() {
		if joined, err = h.lateJoin(ctx, uow, command); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, job := range joined {
		h.bus.PublishTo(command.WorkerID(), ports.Event{
			Kind: ports.EventJobOffer,
			Payload: JobOfferNotification{
				JobID:      job.ID().String(),
				SubOrderID: job.SubOrderID().String(),
				ShopID:     job.ShopID().String(),
			},
		})
	}

	return nil
}

// lateJoin appends the worker to every broadcasting job that has not seen
// them yet and returns the jobs whose candidate set actually changed.
func (h SetAvailabilityCommandHandler) lateJoin(
	ctx context.Context,
	uow WorkerDispatchUoW,
	command SetAvailabilityCommand,
) ([]*dispatch.Job, error) {
	dispatchRepo := uow.DispatchRepository()

	jobs, err := dispatchRepo.GetBroadcastingNotSeenBy(ctx, command.WorkerID())
	if err != nil {
		return nil, err
	}

	joined := make([]*dispatch.Job, 0, len(jobs))
	for _, job := range jobs {
		appended, aErr := dispatchRepo.AppendCandidate(ctx, job.ID(), command.WorkerID())
		if aErr != nil {
			return nil, aErr
		}
		if appended {
			joined = append(joined, job)
		}
	}

	return joined, nil
}
