package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/worker"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetBySubOrderID(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, subOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateSubOrder(
	ctx context.Context, o *order.Order, subOrderID kernel.UUID, expectedStatus order.Status,
) error {
	args := m.Called(ctx, o, subOrderID, expectedStatus)
	return args.Error(0)
}

func (m *MockOrderRepository) AssignNumber(ctx context.Context, orderID kernel.UUID, number int64) error {
	args := m.Called(ctx, orderID, number)
	return args.Error(0)
}

func (m *MockOrderRepository) GetAwaitingCredentialRefresh(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDispatchRepository struct{ mock.Mock }

func (m *MockDispatchRepository) Add(ctx context.Context, j *dispatch.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockDispatchRepository) Get(ctx context.Context, id kernel.UUID) (*dispatch.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Job), args.Error(1)
}

func (m *MockDispatchRepository) Resolve(
	ctx context.Context, jobID, workerID kernel.UUID, resolvedAt time.Time,
) error {
	args := m.Called(ctx, jobID, workerID, resolvedAt)
	return args.Error(0)
}

func (m *MockDispatchRepository) AppendCandidate(ctx context.Context, jobID, workerID kernel.UUID) (bool, error) {
	args := m.Called(ctx, jobID, workerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchRepository) GetBroadcastingNotSeenBy(
	ctx context.Context, workerID kernel.UUID,
) ([]*dispatch.Job, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dispatch.Job), args.Error(1)
}

func (m *MockDispatchRepository) CountActiveByWorker(ctx context.Context, workerID kernel.UUID) (int, error) {
	args := m.Called(ctx, workerID)
	return args.Int(0), args.Error(1)
}

func (m *MockDispatchRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWorkerRepository struct{ mock.Mock }

func (m *MockWorkerRepository) Add(ctx context.Context, w *worker.Worker) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkerRepository) Update(ctx context.Context, w *worker.Worker) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*worker.Worker), args.Error(1)
}

func (m *MockWorkerRepository) GetAllAvailable(ctx context.Context) ([]*worker.Worker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*worker.Worker), args.Error(1)
}

type MockSequenceAllocator struct{ mock.Mock }

func (m *MockSequenceAllocator) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW implements every unit-of-work interface the commands package
// defines, so a single mock backs all handler tests.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DispatchRepository() ports.DispatchRepository {
	args := m.Called()
	return args.Get(0).(ports.DispatchRepository)
}

func (m *MockUoW) WorkerRepository() ports.WorkerRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkerRepository)
}

func (m *MockUoW) SequenceAllocator() ports.SequenceAllocator {
	args := m.Called()
	return args.Get(0).(ports.SequenceAllocator)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOrderDispatchUoWFactory struct{ mock.Mock }

func (m *MockOrderDispatchUoWFactory) Create() commands.OrderDispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderDispatchUoW)
}

type MockWorkerDispatchUoWFactory struct{ mock.Mock }

func (m *MockWorkerDispatchUoWFactory) Create() commands.WorkerDispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.WorkerDispatchUoW)
}

type MockNotificationBus struct{ mock.Mock }

func (m *MockNotificationBus) RegisterConnection(actorID kernel.UUID, conn ports.Connection) {
	m.Called(actorID, conn)
}

func (m *MockNotificationBus) UnregisterConnection(actorID kernel.UUID, conn ports.Connection) {
	m.Called(actorID, conn)
}

func (m *MockNotificationBus) PublishTo(actorID kernel.UUID, event ports.Event) {
	m.Called(actorID, event)
}

type MockCredentialSender struct{ mock.Mock }

func (m *MockCredentialSender) Send(
	ctx context.Context, customerID kernel.UUID, code string, expiresAt time.Time,
) error {
	args := m.Called(ctx, customerID, code, expiresAt)
	return args.Error(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreatePayment(
	ctx context.Context, orderID kernel.UUID, amount kernel.Money,
) (string, error) {
	args := m.Called(ctx, orderID, amount)
	return args.String(0), args.Error(1)
}
