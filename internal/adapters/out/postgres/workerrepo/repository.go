package workerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkerRepository implements WorkerRepository using GORM.
type GormWorkerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkerRepository creates a new GORM worker repository.
func NewGormWorkerRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkerRepository {
	return &GormWorkerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new worker to the database.
func (r *GormWorkerRepository) Add(ctx context.Context, aggregate *worker.Worker) error {
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

// Update saves changes to an existing worker. An explicit column map keeps
// the availability flag writable when it flips back to false.
func (r *GormWorkerRepository) Update(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&WorkerDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":      dto.Name,
			"available": dto.Available,
			"latitude":  dto.Latitude,
			"longitude": dto.Longitude,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a worker by ID.
func (r *GormWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves every worker currently accepting job offers.
func (r *GormWorkerRepository) GetAllAvailable(ctx context.Context) ([]*worker.Worker, error) {
	var dtos []WorkerDTO
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	workers := make([]*worker.Worker, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		workers = append(workers, aggregate)
	}

	return workers, nil
}
