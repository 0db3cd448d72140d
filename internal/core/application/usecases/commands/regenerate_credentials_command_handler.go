package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RegenerateCredentialsCommandHandler sweeps sub-orders that are out for
// delivery with a missing or expired confirmation code and mints fresh ones.
// It runs off the request path on a timer, so a sub-order redeemed between
// the scan and the write just loses the race: the conditional status write
// fails and the row is skipped.
type RegenerateCredentialsCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	sender     ports.CredentialSender
}

// NewRegenerateCredentialsCommandHandler creates a handler for the
// credential refresh sweep.
func NewRegenerateCredentialsCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	sender ports.CredentialSender,
) RegenerateCredentialsCommandHandler {
	return RegenerateCredentialsCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		sender:     sender,
	}
}

// refreshedCredential pairs a minted code with its addressee for post-commit
// delivery.
type refreshedCredential struct {
	customerID   kernel.UUID
	notification StatusChangedNotification
}

// Handle refreshes every stale code it can and reports the first hard error.
// Version conflicts from concurrent redemptions are expected and skipped.
func (h RegenerateCredentialsCommandHandler) Handle(ctx context.Context, command RegenerateCredentialsCommand) error {
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

	aggregates, err := orderRepo.GetAwaitingCredentialRefresh(ctx, now)
	if err != nil {
		return err
	}

	refreshed := make([]refreshedCredential, 0)
	for _, aggregate := range aggregates {
		for _, subOrder := range aggregate.SubOrdersAwaitingCredential(now) {
			code, cErr := order.GenerateCode()
			if cErr != nil {
				return cErr
			}
			credential, _, cErr := aggregate.IssueCredential(subOrder.ID(), code, now)
			if cErr != nil {
				return cErr
			}

			uErr := orderRepo.UpdateSubOrder(ctx, aggregate, subOrder.ID(), order.OutForDelivery)
			if errors.Is(uErr, errs.ErrVersionIsInvalid) {
				// Redeemed while we were scanning.
				continue
			}
			if uErr != nil {
				return uErr
			}

			expiresAt := credential.ExpiresAt()
			refreshed = append(refreshed, refreshedCredential{
				customerID: aggregate.CustomerID(),
				notification: StatusChangedNotification{
					OrderID:          aggregate.ID().String(),
					SubOrderID:       subOrder.ID().String(),
					Status:           subOrder.Status().String(),
					ConfirmationCode: credential.Code(),
					CodeExpiresAt:    &expiresAt,
				},
			})
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, r := range refreshed {
		_ = h.sender.Send(ctx, r.customerID, r.notification.ConfirmationCode, *r.notification.CodeExpiresAt)
		h.bus.PublishTo(r.customerID, ports.Event{
			Kind:    ports.EventStatusChanged,
			Payload: r.notification,
		})
	}

	return nil
}
