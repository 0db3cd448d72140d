package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCancelOrderCommand(t *testing.T) {
	cmd, err := commands.NewCancelOrderCommand(kernel.NewUUID(), kernel.NewUUID(), "changed mind")
	require.NoError(t, err)
	assert.Equal(t, "changed mind", cmd.Reason())

	_, err = commands.NewCancelOrderCommand(kernel.UUID{}, kernel.NewUUID(), "")
	require.Error(t, err)
}

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	owner1, owner2 := kernel.NewUUID(), kernel.NewUUID()
	aggregate := testOrder(t, customerID, order.TypeDelivery,
		testSubOrder(t, owner1), testSubOrder(t, owner2))

	cmd, err := commands.NewCancelOrderCommand(customerID, aggregate.ID(), "changed mind")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	bus := new(MockNotificationBus)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	bus.On("PublishTo", owner1, mock.AnythingOfType("ports.Event")).Once()
	bus.On("PublishTo", owner2, mock.AnythingOfType("ports.Event")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, bus)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, aggregate.IsCancelled())
	for _, so := range aggregate.SubOrders() {
		assert.Equal(t, order.Cancelled, so.Status())
	}
	orderRepo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_NotCustomer(t *testing.T) {
	ctx := t.Context()

	aggregate := testOrder(t, kernel.NewUUID(), order.TypeDelivery, testSubOrder(t, kernel.NewUUID()))

	cmd, err := commands.NewCancelOrderCommand(kernel.NewUUID(), aggregate.ID(), "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, new(MockNotificationBus))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrActorNotAllowed)
	assert.False(t, aggregate.IsCancelled())
}

func TestCancelOrderCommandHandler_Handle_AlreadyInProgress(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	ownerID := kernel.NewUUID()
	subOrder := testSubOrderInStatus(t, ownerID, order.Preparing, nil)
	aggregate := restoreOrderWithNumber(t, customerID, 7, subOrder)

	cmd, err := commands.NewCancelOrderCommand(customerID, aggregate.ID(), "too slow")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	bus := new(MockNotificationBus)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, bus)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	bus.AssertNotCalled(t, "PublishTo", mock.Anything, mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCancelOrderCommand(kernel.NewUUID(), orderID, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, new(MockNotificationBus))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNoOrderFound)
}
