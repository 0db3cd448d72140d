package dispatch

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for dispatch job operations.
var (
	// ErrJobIsNotConstructed is returned when using an improperly initialized Job.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")
	// ErrJobAlreadyResolved is returned when a worker tries to claim or join a
	// job that another worker has already won.
	ErrJobAlreadyResolved = errors.New("job is already resolved")
)

// Job is the dispatch aggregate: an open offer to deliver one sub-order,
// broadcast to a growing set of candidate workers until exactly one of them
// claims it. The candidate set is append-only; resolution is a one-way
// transition enforced here and by a conditional write at the storage level.
type Job struct {
	id          kernel.UUID
	subOrderID  kernel.UUID
	shopID      kernel.UUID
	broadcastTo []kernel.UUID
	status      JobStatus

	assignedWorkerID *kernel.UUID
	resolvedAt       *time.Time

	guard guard.ConstructorGuard
}

// NewJob creates a broadcasting job for a sub-order, offered to the given
// initial candidates. An empty candidate set is allowed: workers joining later
// through availability changes are appended via AppendCandidate.
func NewJob(id, subOrderID, shopID kernel.UUID, candidates []kernel.UUID) (*Job, error) {
	job := &Job{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		job.setID(id),
		job.setSubOrderID(subOrderID),
		job.setShopID(shopID),
	); err != nil {
		return nil, err
	}

	job.status = Broadcasting
	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
		job.broadcastTo = append(job.broadcastTo, candidate)
	}

	return job, nil
}

// RestoreJob reconstructs a Job from persistent storage.
func RestoreJob(
	id, subOrderID, shopID kernel.UUID,
	broadcastTo []kernel.UUID,
	status JobStatus,
	assignedWorkerID *kernel.UUID,
	resolvedAt *time.Time,
) (*Job, error) {
	job := &Job{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		job.setID(id),
		job.setSubOrderID(subOrderID),
		job.setShopID(shopID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	job.broadcastTo = make([]kernel.UUID, len(broadcastTo))
	copy(job.broadcastTo, broadcastTo)
	job.status = status
	job.assignedWorkerID = assignedWorkerID
	job.resolvedAt = resolvedAt

	return job, nil
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// SubOrderID returns the sub-order this job delivers.
func (j *Job) SubOrderID() kernel.UUID {
	return j.subOrderID
}

// ShopID returns the pickup location reference.
func (j *Job) ShopID() kernel.UUID {
	return j.shopID
}

// BroadcastTo returns a copy of the candidate worker set.
func (j *Job) BroadcastTo() []kernel.UUID {
	out := make([]kernel.UUID, len(j.broadcastTo))
	copy(out, j.broadcastTo)
	return out
}

// Status returns the job's lifecycle status.
func (j *Job) Status() JobStatus {
	return j.status
}

// AssignedWorker returns the winning worker's ID, or nil while broadcasting.
func (j *Job) AssignedWorker() *kernel.UUID {
	return j.assignedWorkerID
}

// ResolvedAt returns the resolution time, or nil while broadcasting.
func (j *Job) ResolvedAt() *time.Time {
	return j.resolvedAt
}

// IsBroadcastTo reports whether the worker is already in the candidate set.
func (j *Job) IsBroadcastTo(workerID kernel.UUID) bool {
	for _, candidate := range j.broadcastTo {
		if candidate.IsEqual(workerID) {
			return true
		}
	}
	return false
}

// OtherCandidates returns the candidate workers other than the given one.
// Used to withdraw the offer from losing candidates after resolution.
func (j *Job) OtherCandidates(workerID kernel.UUID) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(j.broadcastTo))
	for _, candidate := range j.broadcastTo {
		if !candidate.IsEqual(workerID) {
			out = append(out, candidate)
		}
	}
	return out
}

// Resolve assigns the job to the claiming worker. Only a broadcasting job can
// be resolved; a second claim gets ErrJobAlreadyResolved. Under concurrent
// claims the storage layer makes the same check atomic with a conditional
// write, so losing here or there is equivalent.
func (j *Job) Resolve(workerID kernel.UUID, now time.Time) error {
	if err := workerID.Validate(); err != nil {
		return err
	}
	if j.status == Resolved {
		return ErrJobAlreadyResolved
	}

	j.status = Resolved
	j.assignedWorkerID = &workerID
	j.resolvedAt = &now
	return nil
}

// AppendCandidate adds a late-joining worker to the candidate set. Appending
// an already-present worker is a no-op; appending to a resolved job fails.
// Returns whether the set changed.
func (j *Job) AppendCandidate(workerID kernel.UUID) (bool, error) {
	if err := workerID.Validate(); err != nil {
		return false, err
	}
	if j.status == Resolved {
		return false, ErrJobAlreadyResolved
	}
	if j.IsBroadcastTo(workerID) {
		return false, nil
	}

	j.broadcastTo = append(j.broadcastTo, workerID)
	return true, nil
}

// Validate checks that the Job was created through a constructor.
func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	j.id = id
	return nil
}

func (j *Job) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("subOrderID", err)
	}

	j.subOrderID = subOrderID
	return nil
}

func (j *Job) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shopID", err)
	}

	j.shopID = shopID
	return nil
}
