package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"
)

// UpdateSpecialInstructionsCommandHandler lets a customer amend the delivery
// instructions while a kitchen can still act on them. The aggregate rejects
// the edit once no sub-order is pending or preparing.
type UpdateSpecialInstructionsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateSpecialInstructionsCommandHandler creates a handler for
// instruction edits.
func NewUpdateSpecialInstructionsCommandHandler(uowFactory OrderUoWFactory) UpdateSpecialInstructionsCommandHandler {
	return UpdateSpecialInstructionsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle replaces the order's delivery instructions. Returns
// order.ErrInvalidTransition when every sub-order has moved past preparing.
func (h UpdateSpecialInstructionsCommandHandler) Handle(
	ctx context.Context, command UpdateSpecialInstructionsCommand,
) error {
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

	if err = aggregate.UpdateSpecialInstructions(command.Instructions()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
