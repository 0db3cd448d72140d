package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var ErrNoJobFound = errors.New("no job found")

// AcceptJobCommandHandler settles the race between workers claiming the same
// job. The winner is decided by a conditional storage write: the resolve only
// lands while the job row is still broadcasting, so exactly one claim
// succeeds and every later one gets dispatch.ErrJobAlreadyResolved.
type AcceptJobCommandHandler struct {
	uowFactory UoWFactory
	policy     services.DispatchPolicy
	bus        ports.NotificationBus
}

// NewAcceptJobCommandHandler creates a handler for job claims.
func NewAcceptJobCommandHandler(
	uowFactory UoWFactory,
	policy services.DispatchPolicy,
	bus ports.NotificationBus,
) AcceptJobCommandHandler {
	return AcceptJobCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		bus:        bus,
	}
}

// Handle claims the job for the worker, records the assignment on the
// sub-order, withdraws the offer from the losing candidates, and tells the
// customer who is bringing their order.
func (h AcceptJobCommandHandler) Handle(ctx context.Context, command AcceptJobCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dispatchRepo := uow.DispatchRepository()

	job, err := dispatchRepo.Get(ctx, command.JobID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoJobFound
	}
	if err != nil {
		return err
	}

	if !job.IsBroadcastTo(command.WorkerID()) {
		return ErrActorNotAllowed
	}

	activeJobs, err := dispatchRepo.CountActiveByWorker(ctx, command.WorkerID())
	if err != nil {
		return err
	}
	if err = h.policy.CheckCapacity(activeJobs); err != nil {
		return err
	}

	if err = dispatchRepo.Resolve(ctx, job.ID(), command.WorkerID(), now); err != nil {
		return err
	}
	if err = job.Resolve(command.WorkerID(), now); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetBySubOrderID(ctx, job.SubOrderID())
	if err != nil {
		return err
	}
	if err = aggregate.AssignWorker(job.SubOrderID(), command.WorkerID()); err != nil {
		return err
	}
	if err = orderRepo.UpdateSubOrder(ctx, aggregate, job.SubOrderID(), order.OutForDelivery); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	withdrawn := JobWithdrawnNotification{JobID: job.ID().String()}
	for _, candidate := range job.OtherCandidates(command.WorkerID()) {
		h.bus.PublishTo(candidate, ports.Event{
			Kind:    ports.EventJobWithdrawn,
			Payload: withdrawn,
		})
	}

	h.bus.PublishTo(aggregate.CustomerID(), ports.Event{
		Kind: ports.EventStatusChanged,
		Payload: StatusChangedNotification{
			OrderID:    aggregate.ID().String(),
			SubOrderID: job.SubOrderID().String(),
			Status:     order.OutForDelivery.String(),
			WorkerID:   command.WorkerID().String(),
		},
	})

	return nil
}
