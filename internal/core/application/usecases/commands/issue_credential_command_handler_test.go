package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewIssueCredentialCommand(t *testing.T) {
	_, err := commands.NewIssueCredentialCommand(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)

	_, err = commands.NewIssueCredentialCommand(kernel.UUID{}, kernel.NewUUID())
	require.Error(t, err)
}

func TestIssueCredentialCommandHandler_Handle_MintsFreshCode(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	subOrder := testSubOrderInStatus(t, kernel.NewUUID(), order.OutForDelivery, nil)
	aggregate := restoreOrderWithNumber(t, customerID, 7, subOrder)

	cmd, err := commands.NewIssueCredentialCommand(customerID, subOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	bus := new(MockNotificationBus)
	sender := new(MockCredentialSender)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetBySubOrderID", ctx, subOrder.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("UpdateSubOrder", ctx, aggregate, subOrder.ID(), order.OutForDelivery).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	sender.On("Send", ctx, customerID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	bus.On("PublishTo", customerID, mock.AnythingOfType("ports.Event")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueCredentialCommandHandler(factory, bus, sender)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, subOrder.Credential())
	assert.Len(t, subOrder.Credential().Code(), order.CodeLength)
	orderRepo.AssertExpectations(t)
	sender.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestIssueCredentialCommandHandler_Handle_ReissueReturnsExistingCode(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	existing := testCredential(t, "1234", time.Now())
	subOrder := testSubOrderInStatus(t, kernel.NewUUID(), order.OutForDelivery, existing)
	aggregate := restoreOrderWithNumber(t, customerID, 7, subOrder)

	cmd, err := commands.NewIssueCredentialCommand(customerID, subOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	bus := new(MockNotificationBus)
	sender := new(MockCredentialSender)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetBySubOrderID", ctx, subOrder.ID()).Return(aggregate, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	sender.On("Send", ctx, customerID, "1234", mock.AnythingOfType("time.Time")).Return(nil).Once()
	bus.On("PublishTo", customerID, mock.AnythingOfType("ports.Event")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueCredentialCommandHandler(factory, bus, sender)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "1234", subOrder.Credential().Code())
	orderRepo.AssertNotCalled(t, "UpdateSubOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sender.AssertExpectations(t)
}

func TestIssueCredentialCommandHandler_Handle_SenderFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	subOrder := testSubOrderInStatus(t, kernel.NewUUID(), order.OutForDelivery, nil)
	aggregate := restoreOrderWithNumber(t, customerID, 7, subOrder)

	cmd, err := commands.NewIssueCredentialCommand(customerID, subOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	bus := new(MockNotificationBus)
	sender := new(MockCredentialSender)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetBySubOrderID", ctx, subOrder.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("UpdateSubOrder", ctx, aggregate, subOrder.ID(), order.OutForDelivery).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	sender.On("Send", ctx, customerID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(assert.AnError).Once()
	bus.On("PublishTo", customerID, mock.AnythingOfType("ports.Event")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueCredentialCommandHandler(factory, bus, sender)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestIssueCredentialCommandHandler_Handle_NotCustomer(t *testing.T) {
	ctx := t.Context()

	subOrder := testSubOrderInStatus(t, kernel.NewUUID(), order.OutForDelivery, nil)
	aggregate := restoreOrderWithNumber(t, kernel.NewUUID(), 7, subOrder)

	cmd, err := commands.NewIssueCredentialCommand(kernel.NewUUID(), subOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetBySubOrderID", ctx, subOrder.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueCredentialCommandHandler(
		factory, new(MockNotificationBus), new(MockCredentialSender))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrActorNotAllowed)
	assert.Nil(t, subOrder.Credential())
}
