package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrNoOrderFound    = errors.New("no order found")
	ErrActorNotAllowed = errors.New("actor is not allowed to perform this operation")
)

// orderNumberSequence is the named counter order numbers are drawn from.
const orderNumberSequence = "order_number"

// RequestStatusChangeCommandHandler orchestrates the sub-order lifecycle:
// guarded status transitions, one-time order number allocation, receipt
// freezing, and the side effects of going out for delivery (dispatch job
// broadcast and confirmation code issuance).
//
// Concurrency is settled at the storage layer: the status write is
// conditional on the status the handler observed, so of two racing requests
// exactly one commits and the other surfaces a version conflict.
type RequestStatusChangeCommandHandler struct {
	uowFactory UoWFactory
	policy     services.DispatchPolicy
	bus        ports.NotificationBus
	sender     ports.CredentialSender
}

// NewRequestStatusChangeCommandHandler creates a handler for status change requests.
func NewRequestStatusChangeCommandHandler(
	uowFactory UoWFactory,
	policy services.DispatchPolicy,
	bus ports.NotificationBus,
	sender ports.CredentialSender,
) RequestStatusChangeCommandHandler {
	return RequestStatusChangeCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		bus:        bus,
		sender:     sender,
	}
}

// Handle processes a status change request end to end. Requests that leave
// the status unchanged (idempotent re-application of a locked status) commit
// nothing and notify nobody.
func (h RequestStatusChangeCommandHandler) Handle(ctx context.Context, command RequestStatusChangeCommand) error {
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

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.GetBySubOrderID(ctx, command.SubOrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	subOrder, err := aggregate.SubOrder(command.SubOrderID())
	if err != nil {
		return err
	}
	if !subOrder.OwnerID().IsEqual(command.ActorID()) {
		return ErrActorNotAllowed
	}
	previousStatus := subOrder.Status()

	if aggregate.Number() == nil && command.Target().TriggersFulfillment() {
		if aggregate, err = h.allocateNumber(ctx, uow, aggregate); err != nil {
			return err
		}
	}

	subOrder, changed, err := aggregate.ChangeSubOrderStatus(command.SubOrderID(), command.Target(), now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = orderRepo.UpdateSubOrder(ctx, aggregate, command.SubOrderID(), previousStatus); err != nil {
		return err
	}

	var (
		credential order.Credential
		candidates []kernel.UUID
		job        *dispatch.Job
	)
	if command.Target() == order.OutForDelivery {
		credential, candidates, job, err = h.startDelivery(ctx, uow, aggregate, subOrder, now)
		if err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notify(aggregate, subOrder, credential, candidates, job)

	return nil
}

// allocateNumber draws the next order number and writes it conditionally.
// Losing the allocation race to a concurrent request is fine: the winner's
// number is reloaded instead.
func (h RequestStatusChangeCommandHandler) allocateNumber(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
) (*order.Order, error) {
	number, err := uow.SequenceAllocator().Next(ctx, orderNumberSequence)
	if err != nil {
		return nil, err
	}

	err = uow.OrderRepository().AssignNumber(ctx, aggregate.ID(), number)
	if errors.Is(err, order.ErrOrderNumberAssigned) {
		return uow.OrderRepository().Get(ctx, aggregate.ID())
	}
	if err != nil {
		return nil, err
	}

	if err = aggregate.AssignNumber(number); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// startDelivery runs the out-for-delivery side effects: mint the confirmation
// code, create the dispatch job broadcast to the currently available workers,
// and persist both on the sub-order.
func (h RequestStatusChangeCommandHandler) startDelivery(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	subOrder *order.SubOrder,
	now time.Time,
) (order.Credential, []kernel.UUID, *dispatch.Job, error) {
	code, err := order.GenerateCode()
	if err != nil {
		return order.Credential{}, nil, nil, err
	}
	credential, _, err := aggregate.IssueCredential(subOrder.ID(), code, now)
	if err != nil {
		return order.Credential{}, nil, nil, err
	}

	workers, err := uow.WorkerRepository().GetAllAvailable(ctx)
	if err != nil {
		return order.Credential{}, nil, nil, err
	}
	eligible, err := h.policy.EligibleCandidates(workers)
	if err != nil {
		return order.Credential{}, nil, nil, err
	}

	candidates := make([]kernel.UUID, 0, len(eligible))
	for _, w := range eligible {
		candidates = append(candidates, w.ID())
	}

	job, err := dispatch.NewJob(kernel.NewUUID(), subOrder.ID(), subOrder.ShopID(), candidates)
	if err != nil {
		return order.Credential{}, nil, nil, err
	}
	if err = uow.DispatchRepository().Add(ctx, job); err != nil {
		return order.Credential{}, nil, nil, err
	}

	if err = aggregate.AttachDispatchJob(subOrder.ID(), job.ID()); err != nil {
		return order.Credential{}, nil, nil, err
	}
	if err = uow.OrderRepository().UpdateSubOrder(ctx, aggregate, subOrder.ID(), subOrder.Status()); err != nil {
		return order.Credential{}, nil, nil, err
	}

	return credential, candidates, job, nil
}

// notify publishes the post-commit events: the status change to the customer
// (with the live confirmation code, if one was minted) and the job offer to
// every candidate worker. The code is also sent out-of-band, best effort.
func (h RequestStatusChangeCommandHandler) notify(
	aggregate *order.Order,
	subOrder *order.SubOrder,
	credential order.Credential,
	candidates []kernel.UUID,
	job *dispatch.Job,
) {
	notification := StatusChangedNotification{
		OrderID:    aggregate.ID().String(),
		SubOrderID: subOrder.ID().String(),
		Status:     subOrder.Status().String(),
	}
	if receipt := subOrder.Receipt(); receipt != nil {
		notification.ReceiptNumber = receipt.Number()
	}
	if credential.Validate() == nil {
		expiresAt := credential.ExpiresAt()
		notification.ConfirmationCode = credential.Code()
		notification.CodeExpiresAt = &expiresAt

		_ = h.sender.Send(context.Background(), aggregate.CustomerID(), credential.Code(), expiresAt)
	}
	h.bus.PublishTo(aggregate.CustomerID(), ports.Event{
		Kind:    ports.EventStatusChanged,
		Payload: notification,
	})

	if job == nil {
		return
	}
	offer := JobOfferNotification{
		JobID:      job.ID().String(),
		SubOrderID: subOrder.ID().String(),
		ShopID:     subOrder.ShopID().String(),
	}
	for _, candidate := range candidates {
		h.bus.PublishTo(candidate, ports.Event{
			Kind:    ports.EventJobOffer,
			Payload: offer,
		})
	}
}
