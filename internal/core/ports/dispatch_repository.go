package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
)

// DispatchRepository defines the persistence contract for dispatch jobs.
//
// Resolve and AppendCandidate are conditional single-statement writes guarded
// by the broadcasting status, so two workers racing for the same job cannot
// both win and a late-join append cannot land on a resolved job.
type DispatchRepository interface {
	// Add persists a new dispatch job.
	Add(ctx context.Context, aggregate *dispatch.Job) error

	// Get retrieves a job by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*dispatch.Job, error)

	// Resolve atomically assigns the job to the worker iff it is still
	// broadcasting. Returns dispatch.ErrJobAlreadyResolved when another worker
	// won the race, errs.ObjectNotFoundError when the job does not exist.
	Resolve(ctx context.Context, jobID, workerID kernel.UUID, resolvedAt time.Time) error

	// AppendCandidate atomically adds the worker to the broadcast set iff the
	// job is still broadcasting and the worker is not already in it. Returns
	// whether the set changed; a concurrently resolved job is a no-op, not an
	// error.
	AppendCandidate(ctx context.Context, jobID, workerID kernel.UUID) (bool, error)

	// GetBroadcastingNotSeenBy retrieves jobs still broadcasting whose
	// candidate set does not include the worker. Used by the late-join scan
	// when a worker becomes available.
	GetBroadcastingNotSeenBy(ctx context.Context, workerID kernel.UUID) ([]*dispatch.Job, error)

	// CountActiveByWorker counts jobs resolved to the worker whose sub-order
	// has not been delivered yet.
	CountActiveByWorker(ctx context.Context, workerID kernel.UUID) (int, error)

	// Delete removes a job, typically after its sub-order is delivered.
	Delete(ctx context.Context, id kernel.UUID) error
}
