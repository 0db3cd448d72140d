package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// IssueCredentialCommandHandler mints or re-sends a sub-order's confirmation
// code. Issuance is idempotent within the validity window: a repeated request
// returns the code already out there instead of invalidating it.
type IssueCredentialCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	sender     ports.CredentialSender
}

// NewIssueCredentialCommandHandler creates a handler for credential issuance.
func NewIssueCredentialCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	sender ports.CredentialSender,
) IssueCredentialCommandHandler {
	return IssueCredentialCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		sender:     sender,
	}
}

// Handle issues the code and delivers it to the customer on both channels:
// the status-changed push event and the best-effort out-of-band sender. A
// sender failure never fails the command.
func (h IssueCredentialCommandHandler) Handle(ctx context.Context, command IssueCredentialCommand) error {
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

	if !aggregate.CustomerID().IsEqual(command.ActorID()) {
		return ErrActorNotAllowed
	}

	subOrder, err := aggregate.SubOrder(command.SubOrderID())
	if err != nil {
		return err
	}
	previousStatus := subOrder.Status()

	code, err := order.GenerateCode()
	if err != nil {
		return err
	}
	credential, minted, err := aggregate.IssueCredential(command.SubOrderID(), code, now)
	if err != nil {
		return err
	}

	if minted {
		if err = orderRepo.UpdateSubOrder(ctx, aggregate, command.SubOrderID(), previousStatus); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	expiresAt := credential.ExpiresAt()
	_ = h.sender.Send(ctx, aggregate.CustomerID(), credential.Code(), expiresAt)

	h.bus.PublishTo(aggregate.CustomerID(), ports.Event{
		Kind: ports.EventStatusChanged,
		Payload: StatusChangedNotification{
			OrderID:          aggregate.ID().String(),
			SubOrderID:       subOrder.ID().String(),
			Status:           subOrder.Status().String(),
			ConfirmationCode: credential.Code(),
			CodeExpiresAt:    &expiresAt,
		},
	})

	return nil
}
