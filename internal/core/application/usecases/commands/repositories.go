// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DispatchRepoFactory provides access to the dispatch repository within a transaction.
	DispatchRepoFactory interface {
		DispatchRepository() ports.DispatchRepository
	}

	// WorkerRepoFactory provides access to the worker repository within a transaction.
	WorkerRepoFactory interface {
		WorkerRepository() ports.WorkerRepository
	}

	// SequenceFactory provides access to the sequence allocator within a transaction.
	SequenceFactory interface {
		SequenceAllocator() ports.SequenceAllocator
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only touch the order aggregate.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderDispatchUoW manages transactions spanning orders and dispatch jobs.
	// Used by redemption, which detaches the job it delivers.
	OrderDispatchUoW interface {
		TxManager
		OrderRepoFactory
		DispatchRepoFactory
	}

	// OrderDispatchUoWFactory creates new order+dispatch unit of work instances.
	OrderDispatchUoWFactory interface {
		Create() OrderDispatchUoW
	}

	// WorkerDispatchUoW manages transactions spanning workers and dispatch jobs.
	// Used by the availability toggle and its late-join broadcast scan.
	WorkerDispatchUoW interface {
		TxManager
		WorkerRepoFactory
		DispatchRepoFactory
	}

	// WorkerDispatchUoWFactory creates new worker+dispatch unit of work instances.
	WorkerDispatchUoWFactory interface {
		Create() WorkerDispatchUoW
	}

	// UoW manages transactions across every aggregate the fulfillment flow
	// touches: orders, dispatch jobs, workers, and the number sequence.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   dispatchRepo := uow.DispatchRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DispatchRepoFactory
		WorkerRepoFactory
		SequenceFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
