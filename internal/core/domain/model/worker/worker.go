package worker

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for worker operations.
var (
	// ErrNameIsRequired is returned when attempting to create a worker without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrWorkerIsNotConstructed is returned when using an improperly initialized Worker.
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker constructor")
)

// Worker is a delivery worker who toggles availability and claims dispatch
// jobs. Availability gates which job broadcasts include the worker; the live
// connection itself is handled by the notification bus and never persisted.
type Worker struct {
	id           kernel.UUID
	name         string
	available    bool
	lastLocation kernel.Location

	guard guard.ConstructorGuard
}

// NewWorker creates a worker, initially unavailable and with no known location.
func NewWorker(id kernel.UUID, name string) (*Worker, error) {
	worker := &Worker{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		worker.setID(id),
		worker.setName(name),
	); err != nil {
		return nil, err
	}

	return worker, nil
}

// RestoreWorker reconstructs a Worker from persistent storage.
func RestoreWorker(id kernel.UUID, name string, available bool, lastLocation kernel.Location) (*Worker, error) {
	worker, err := NewWorker(id, name)
	if err != nil {
		return nil, err
	}

	worker.available = available
	worker.lastLocation = lastLocation
	return worker, nil
}

// ID returns the worker's unique identifier.
func (w *Worker) ID() kernel.UUID {
	return w.id
}

// Name returns the worker's display name.
func (w *Worker) Name() string {
	return w.name
}

// IsAvailable reports whether the worker currently accepts job offers.
func (w *Worker) IsAvailable() bool {
	return w.available
}

// LastLocation returns the last reported position. The zero value means the
// worker has never reported one.
func (w *Worker) LastLocation() kernel.Location {
	return w.lastLocation
}

// SetAvailability flips the availability flag. Returns whether the flag
// actually changed, so callers only run the late-join broadcast scan on a real
// off-to-on transition.
func (w *Worker) SetAvailability(available bool) bool {
	if w.available == available {
		return false
	}
	w.available = available
	return true
}

// ReportLocation records the worker's current position.
func (w *Worker) ReportLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	w.lastLocation = location
	return nil
}

// IsEqual compares workers by identity.
func (w *Worker) IsEqual(other *Worker) bool {
	if other == nil {
		return false
	}
	return w.id.IsEqual(other.id)
}

// Validate checks that the Worker was created through a constructor.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

func (w *Worker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	w.id = id
	return nil
}

func (w *Worker) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	w.name = name
	return nil
}
