package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RedeemCredentialCommandHandler confirms a hand-off. A matching, unexpired
// code moves the sub-order to Delivered, stamps the hand-off time, clears the
// code, and removes the finished dispatch job. Redemption is not repeatable:
// the first success clears the code, so replaying it fails.
type RedeemCredentialCommandHandler struct {
	uowFactory OrderDispatchUoWFactory
	bus        ports.NotificationBus
}

// NewRedeemCredentialCommandHandler creates a handler for code redemption.
func NewRedeemCredentialCommandHandler(
	uowFactory OrderDispatchUoWFactory,
	bus ports.NotificationBus,
) RedeemCredentialCommandHandler {
	return RedeemCredentialCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
	}
}

// Handle redeems the code. Missing, mismatched, and expired codes all surface
// as order.ErrInvalidOrExpiredCredential without revealing which it was.
func (h RedeemCredentialCommandHandler) Handle(ctx context.Context, command RedeemCredentialCommand) error {
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
	previousStatus := subOrder.Status()
	jobID := subOrder.DispatchJob()

	if err = aggregate.RedeemCredential(command.SubOrderID(), command.Code(), now); err != nil {
		return err
	}

	if err = orderRepo.UpdateSubOrder(ctx, aggregate, command.SubOrderID(), previousStatus); err != nil {
		return err
	}

	if jobID != nil {
		if err = uow.DispatchRepository().Delete(ctx, *jobID); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notification := StatusChangedNotification{
		OrderID:    aggregate.ID().String(),
		SubOrderID: subOrder.ID().String(),
		Status:     subOrder.Status().String(),
	}
	h.bus.PublishTo(aggregate.CustomerID(), ports.Event{
		Kind:    ports.EventStatusChanged,
		Payload: notification,
	})
	h.bus.PublishTo(subOrder.OwnerID(), ports.Event{
		Kind:    ports.EventStatusChanged,
		Payload: notification,
	})

	return nil
}
