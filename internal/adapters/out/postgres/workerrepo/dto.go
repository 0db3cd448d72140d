// Package workerrepo persists delivery worker aggregates: availability for
// dispatch and the last reported position.
package workerrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

// WorkerDTO represents the database structure for persisting workers.
// Availability is indexed because dispatch scans for available workers on
// every out-for-delivery transition.
type WorkerDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Available bool `gorm:"index"`
	Latitude  *float64
	Longitude *float64
}

// TableName specifies the database table name for worker entities.
func (WorkerDTO) TableName() string {
	return "workers"
}

// fromDomain converts a worker aggregate to its database representation.
func fromDomain(aggregate *worker.Worker) WorkerDTO {
	dto := WorkerDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Available: aggregate.IsAvailable(),
	}

	if location := aggregate.LastLocation(); location.Validate() == nil {
		latitude := location.Latitude()
		longitude := location.Longitude()
		dto.Latitude = &latitude
		dto.Longitude = &longitude
	}

	return dto
}

// toDomain converts a database DTO back to a worker aggregate.
func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var lastLocation kernel.Location
	if dto.Latitude != nil && dto.Longitude != nil {
		lastLocation, err = kernel.NewLocation(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return nil, err
		}
	}

	return worker.RestoreWorker(id, dto.Name, dto.Available, lastLocation)
}
