package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func broadcastingJob(t *testing.T) *dispatch.Job {
	t.Helper()
	job, err := dispatch.NewJob(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil)
	require.NoError(t, err)
	return job
}

func TestNewSetAvailabilityCommand(t *testing.T) {
	cmd, err := commands.NewSetAvailabilityCommand(kernel.NewUUID(), true)
	require.NoError(t, err)
	assert.True(t, cmd.Available())

	_, err = commands.NewSetAvailabilityCommand(kernel.UUID{}, true)
	require.Error(t, err)
}

func TestSetAvailabilityCommandHandler_Handle_TurnOnWithLateJoin(t *testing.T) {
	ctx := t.Context()

	workerID := kernel.NewUUID()
	offDuty, err := worker.NewWorker(workerID, "Sam")
	require.NoError(t, err)

	job1 := broadcastingJob(t)
	job2 := broadcastingJob(t)

	cmd, err := commands.NewSetAvailabilityCommand(workerID, true)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	dispatchRepo := new(MockDispatchRepository)
	uow := new(MockUoW)
	bus := new(MockNotificationBus)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, workerID).Return(offDuty, nil).Once(),
		workerRepo.On("Update", ctx, offDuty).Return(nil).Once(),
		uow.On("DispatchRepository").Return(dispatchRepo).Once(),
		dispatchRepo.On("GetBroadcastingNotSeenBy", ctx, workerID).
			Return([]*dispatch.Job{job1, job2}, nil).Once(),
		dispatchRepo.On("AppendCandidate", ctx, job1.ID(), workerID).Return(true, nil).Once(),
		// job2 resolved concurrently: the conditional append did not land.
		dispatchRepo.On("AppendCandidate", ctx, job2.ID(), workerID).Return(false, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	bus.On("PublishTo", workerID, mock.AnythingOfType("ports.Event")).Once()

	factory := new(MockWorkerDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAvailabilityCommandHandler(factory, bus)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, offDuty.IsAvailable())
	workerRepo.AssertExpectations(t)
	dispatchRepo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestSetAvailabilityCommandHandler_Handle_TurnOffSkipsScan(t *testing.T) {
	ctx := t.Context()

	workerID := kernel.NewUUID()
	onDuty, err := worker.RestoreWorker(workerID, "Sam", true, kernel.Location{})
	require.NoError(t, err)

	cmd, err := commands.NewSetAvailabilityCommand(workerID, false)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	dispatchRepo := new(MockDispatchRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, workerID).Return(onDuty, nil).Once(),
		workerRepo.On("Update", ctx, onDuty).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkerDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAvailabilityCommandHandler(factory, new(MockNotificationBus))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, onDuty.IsAvailable())
	dispatchRepo.AssertNotCalled(t, "GetBroadcastingNotSeenBy", mock.Anything, mock.Anything)
}

func TestSetAvailabilityCommandHandler_Handle_NoOpOnSameState(t *testing.T) {
	ctx := t.Context()

	workerID := kernel.NewUUID()
	onDuty, err := worker.RestoreWorker(workerID, "Sam", true, kernel.Location{})
	require.NoError(t, err)

	cmd, err := commands.NewSetAvailabilityCommand(workerID, true)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, workerID).Return(onDuty, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkerDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAvailabilityCommandHandler(factory, new(MockNotificationBus))
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	workerRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSetAvailabilityCommandHandler_Handle_WorkerNotFound(t *testing.T) {
	ctx := t.Context()

	workerID := kernel.NewUUID()
	cmd, err := commands.NewSetAvailabilityCommand(workerID, true)
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("Get", ctx, workerID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkerDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAvailabilityCommandHandler(factory, new(MockNotificationBus))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNoWorkerFound)
}
