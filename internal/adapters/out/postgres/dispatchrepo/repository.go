package dispatchrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDispatchRepository implements DispatchRepository using GORM.
//
// Resolve and AppendCandidate are guarded by the broadcasting status inside
// the statement itself: whichever transaction lands first wins, the loser
// sees zero rows affected.
type GormDispatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDispatchRepository creates a new GORM dispatch job repository.
func NewGormDispatchRepository(db *gorm.DB, tracker aggregateTracker) *GormDispatchRepository {
	return &GormDispatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new dispatch job to the database.
func (r *GormDispatchRepository) Add(ctx context.Context, aggregate *dispatch.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a dispatch job by ID.
func (r *GormDispatchRepository) Get(ctx context.Context, id kernel.UUID) (*dispatch.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dispatch job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Resolve atomically assigns the job to the worker iff it is still
// broadcasting. The loser of a claim race gets ErrJobAlreadyResolved.
func (r *GormDispatchRepository) Resolve(ctx context.Context, jobID, workerID kernel.UUID, resolvedAt time.Time) error {
	if err := errors.Join(jobID.Validate(), workerID.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ? AND status = ?", jobID.Bytes(), int(dispatch.Broadcasting)).
		Updates(map[string]any{
			"status":             int(dispatch.Resolved),
			"assigned_worker_id": workerID.Bytes(),
			"resolved_at":        resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var dto JobDTO
		err := r.db.WithContext(ctx).First(&dto, "id = ?", jobID.Bytes()).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("dispatch job", jobID.String())
		}
		if err != nil {
			return err
		}
		return dispatch.ErrJobAlreadyResolved
	}

	return nil
}

// AppendCandidate atomically adds the worker to the broadcast set iff the job
// is still broadcasting and the worker is not already in it. A job resolved
// in the meantime is a no-op, not an error.
func (r *GormDispatchRepository) AppendCandidate(ctx context.Context, jobID, workerID kernel.UUID) (bool, error) {
	if err := errors.Join(jobID.Validate(), workerID.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE dispatch_jobs
		SET broadcast_to = array_append(broadcast_to, ?)
		WHERE id = ? AND status = ? AND NOT (? = ANY(broadcast_to))
	`, workerID.String(), jobID.Bytes(), int(dispatch.Broadcasting), workerID.String())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// GetBroadcastingNotSeenBy retrieves jobs still broadcasting whose candidate
// set does not include the worker.
func (r *GormDispatchRepository) GetBroadcastingNotSeenBy(ctx context.Context, workerID kernel.UUID) ([]*dispatch.Job, error) {
	if err := workerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []JobDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND NOT (? = ANY(broadcast_to))", int(dispatch.Broadcasting), workerID.String()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	jobs := make([]*dispatch.Job, 0, len(dtos))
	for _, dto := range dtos {
		job, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// CountActiveByWorker counts jobs resolved to the worker whose sub-order has
// not been delivered yet.
func (r *GormDispatchRepository) CountActiveByWorker(ctx context.Context, workerID kernel.UUID) (int, error) {
	if err := workerID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&JobDTO{}).
		Joins("JOIN sub_orders ON sub_orders.id = dispatch_jobs.sub_order_id").
		Where("dispatch_jobs.assigned_worker_id = ? AND dispatch_jobs.status = ?",
			workerID.Bytes(), int(dispatch.Resolved)).
		Where("sub_orders.delivered_at IS NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// Delete removes a job, typically after its sub-order is delivered.
func (r *GormDispatchRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&JobDTO{}, "id = ?", id.Bytes()).Error
}
