package services

import (
	"errors"

	"fulfillment/internal/core/domain/model/worker"
	"fulfillment/internal/pkg/errs"
)

// ErrWorkerAtCapacity is returned when a worker tries to claim a job while
// already carrying the maximum allowed number of unfinished deliveries.
var ErrWorkerAtCapacity = errors.New("worker is at active job capacity")

// DispatchPolicy is a domain service deciding which workers a delivery job
// may go to. It holds the per-worker concurrency cap: how many claimed but
// undelivered jobs a single worker may carry at once.
type DispatchPolicy struct {
	maxActiveJobs int
}

// NewDispatchPolicy creates a policy with the given per-worker cap.
// A cap of zero means unlimited.
func NewDispatchPolicy(maxActiveJobs int) (DispatchPolicy, error) {
	if maxActiveJobs < 0 {
		return DispatchPolicy{}, errs.NewValueIsInvalidError("maxActiveJobs")
	}
	return DispatchPolicy{maxActiveJobs: maxActiveJobs}, nil
}

// MaxActiveJobs returns the configured cap, zero meaning unlimited.
func (p DispatchPolicy) MaxActiveJobs() int {
	return p.maxActiveJobs
}

// CheckCapacity reports whether a worker with the given number of active jobs
// may claim another one.
func (p DispatchPolicy) CheckCapacity(activeJobs int) error {
	if p.maxActiveJobs == 0 {
		return nil
	}
	if activeJobs >= p.maxActiveJobs {
		return ErrWorkerAtCapacity
	}
	return nil
}

// EligibleCandidates filters the worker pool down to those a new job should
// be broadcast to: available workers only.
func (p DispatchPolicy) EligibleCandidates(workers []*worker.Worker) ([]*worker.Worker, error) {
	eligible := make([]*worker.Worker, 0, len(workers))
	for _, w := range workers {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if w.IsAvailable() {
			eligible = append(eligible, w)
		}
	}
	return eligible, nil
}
