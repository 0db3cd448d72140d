package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrPaymentNotExpected is returned when a payment confirmation arrives for
// an order that does not settle through the gateway.
var ErrPaymentNotExpected = errors.New("order does not take an online payment")

// ConfirmPaymentCommandHandler records a captured online payment against the
// order. Confirmation is idempotent: re-confirming a paid order changes
// nothing and succeeds.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmations.
func NewConfirmPaymentCommandHandler(uowFactory OrderUoWFactory) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle marks the order paid with the gateway reference. Cash orders get
// ErrPaymentNotExpected; a cancelled order gets order.ErrOrderAlreadyCancelled.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, command ConfirmPaymentCommand) error {
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
	if aggregate.PaymentMethod() != order.PaymentOnline {
		return ErrPaymentNotExpected
	}
	if aggregate.IsCancelled() {
		return order.ErrOrderAlreadyCancelled
	}
	if aggregate.IsPaid() {
		return nil
	}

	aggregate.MarkPaid(command.PaymentReference())

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
