package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"
)

// WorkerRepository defines the persistence contract for worker aggregates.
type WorkerRepository interface {
	// Add persists a new worker.
	Add(ctx context.Context, aggregate *worker.Worker) error

	// Update persists changes to an existing worker.
	Update(ctx context.Context, aggregate *worker.Worker) error

	// Get retrieves a worker by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)

	// GetAllAvailable retrieves every worker currently accepting job offers.
	GetAllAvailable(ctx context.Context) ([]*worker.Worker, error)
}
