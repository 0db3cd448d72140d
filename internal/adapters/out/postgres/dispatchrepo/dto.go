// Package dispatchrepo persists dispatch jobs. The candidate broadcast set is
// stored as a Postgres text array so racing writes (claim, late-join append)
// can be expressed as single conditional statements.
package dispatchrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobDTO represents the database structure for persisting dispatch jobs.
type JobDTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SubOrderID       uuid.UUID      `gorm:"type:uuid;index"`
	ShopID           uuid.UUID      `gorm:"type:uuid"`
	BroadcastTo      pq.StringArray `gorm:"type:text[]"`
	Status           int            `gorm:"index"`
	AssignedWorkerID *uuid.UUID     `gorm:"type:uuid;index"`
	ResolvedAt       *time.Time
}

// TableName specifies the database table name for dispatch job entities.
func (JobDTO) TableName() string {
	return "dispatch_jobs"
}

// fromDomain converts a dispatch job to its database representation.
func fromDomain(job *dispatch.Job) JobDTO {
	broadcastTo := make(pq.StringArray, 0, len(job.BroadcastTo()))
	for _, candidate := range job.BroadcastTo() {
		broadcastTo = append(broadcastTo, candidate.String())
	}

	dto := JobDTO{
		ID:          job.ID().Bytes(),
		SubOrderID:  job.SubOrderID().Bytes(),
		ShopID:      job.ShopID().Bytes(),
		BroadcastTo: broadcastTo,
		Status:      int(job.Status()),
		ResolvedAt:  job.ResolvedAt(),
	}

	if workerID := job.AssignedWorker(); workerID != nil {
		raw := workerID.Bytes()
		dto.AssignedWorkerID = &raw
	}

	return dto
}

// toDomain converts a database DTO back to a dispatch job.
func toDomain(dto JobDTO) (*dispatch.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	subOrderID, err := kernel.UUIDFromBytes(dto.SubOrderID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	broadcastTo := make([]kernel.UUID, 0, len(dto.BroadcastTo))
	for _, candidate := range dto.BroadcastTo {
		candidateID, candidateErr := kernel.UUIDFromString(candidate)
		if candidateErr != nil {
			return nil, candidateErr
		}
		broadcastTo = append(broadcastTo, candidateID)
	}

	var assignedWorkerID *kernel.UUID
	if dto.AssignedWorkerID != nil {
		workerID, workerErr := kernel.UUIDFromBytes((*dto.AssignedWorkerID)[:])
		if workerErr != nil {
			return nil, workerErr
		}
		assignedWorkerID = &workerID
	}

	return dispatch.RestoreJob(
		id, subOrderID, shopID,
		broadcastTo,
		dispatch.JobStatus(dto.Status),
		assignedWorkerID,
		dto.ResolvedAt,
	)
}
