package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelOrderCommandHandler processes customer-initiated order cancellation.
// The aggregate enforces the cancellation window (all sub-orders pending);
// the handler adds the ownership check and tells every affected shop owner.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, bus ports.NotificationBus) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
	}
}

// Handle cancels the order and all its sub-orders. Returns
// order.ErrOrderAlreadyCancelled on a repeated cancellation and
// order.ErrInvalidTransition when any sub-order has left Pending.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	if !aggregate.CustomerID().IsEqual(command.ActorID()) {
		return ErrActorNotAllowed
	}

	if err = aggregate.Cancel(command.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, so := range aggregate.SubOrders() {
		h.bus.PublishTo(so.OwnerID(), ports.Event{
			Kind: ports.EventStatusChanged,
			Payload: StatusChangedNotification{
				OrderID:    aggregate.ID().String(),
				SubOrderID: so.ID().String(),
				Status:     so.Status().String(),
			},
		})
	}

	return nil
}
