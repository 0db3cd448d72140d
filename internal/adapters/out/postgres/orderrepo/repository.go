package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
//
// The fulfillment-critical writes (sub-order status, order number) are
// conditional single-statement updates checked through RowsAffected, so two
// transactions racing on the same row cannot both win.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with all its sub-orders to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves order-level fields and the current state of every sub-order.
// Used by flows that mutate the whole aggregate at once (cancellation);
// status-machine transitions go through UpdateSubOrder instead.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"order_number":         dto.OrderNumber,
			"payment_reference":    dto.PaymentReference,
			"paid":                 dto.Paid,
			"is_cancelled":         dto.IsCancelled,
			"cancellation_reason":  dto.CancellationReason,
			"cancelled_at":         dto.CancelledAt,
			"special_instructions": dto.SpecialInstructions,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for _, subDTO := range dto.SubOrders {
		if err := r.db.WithContext(ctx).Model(&SubOrderDTO{}).
			Where("id = ?", subDTO.ID).
			Updates(subOrderColumns(subDTO)).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a full order aggregate by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("SubOrders", func(db *gorm.DB) *gorm.DB { return db.Order("sub_orders.id") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBySubOrderID retrieves the aggregate owning the given sub-order.
func (r *GormOrderRepository) GetBySubOrderID(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error) {
	if err := subOrderID.Validate(); err != nil {
		return nil, err
	}

	var subDTO SubOrderDTO
	err := r.db.WithContext(ctx).First(&subDTO, "id = ?", subOrderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sub-order", subOrderID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(subDTO.OrderID[:])
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, orderID)
}

// UpdateSubOrder writes the current state of one sub-order, conditional on
// the status the caller observed when loading the aggregate. A concurrent
// writer that moved the row first makes the guard miss and the caller gets a
// version error.
func (r *GormOrderRepository) UpdateSubOrder(
	ctx context.Context,
	aggregate *order.Order,
	subOrderID kernel.UUID,
	expectedStatus order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	subOrder, err := aggregate.SubOrder(subOrderID)
	if err != nil {
		return err
	}

	subDTO, err := subOrderFromDomain(aggregate.ID(), subOrder)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&SubOrderDTO{}).
		Where("id = ? AND status = ?", subDTO.ID, int(expectedStatus)).
		Updates(subOrderColumns(subDTO))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause("sub-order status")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AssignNumber writes the order number iff none has been assigned yet.
func (r *GormOrderRepository) AssignNumber(ctx context.Context, orderID kernel.UUID, number int64) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND order_number IS NULL", orderID.Bytes()).
		Update("order_number", number)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNumberAssigned
	}

	return nil
}

// GetAwaitingCredentialRefresh retrieves orders holding at least one
// sub-order that is out for delivery, undelivered, and whose confirmation
// code is missing or expired at the given time.
func (r *GormOrderRepository) GetAwaitingCredentialRefresh(ctx context.Context, now time.Time) ([]*order.Order, error) {
	stale := r.db.Model(&SubOrderDTO{}).
		Select("order_id").
		Where("status = ? AND delivered_at IS NULL", int(order.OutForDelivery)).
		Where("credential_expires_at IS NULL OR credential_expires_at <= ?", now)

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("SubOrders", func(db *gorm.DB) *gorm.DB { return db.Order("sub_orders.id") }).
		Where("id IN (?)", stale).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}

// subOrderColumns maps the mutable sub-order fields to their columns. Using
// an explicit map keeps cleared fields (credential, job reference) writable
// as NULL, which struct updates would silently skip.
func subOrderColumns(dto SubOrderDTO) map[string]any {
	return map[string]any{
		"status":                dto.Status,
		"assigned_worker_id":    dto.AssignedWorkerID,
		"dispatch_job_id":       dto.DispatchJobID,
		"credential_code":       dto.CredentialCode,
		"credential_issued_at":  dto.CredentialIssuedAt,
		"credential_expires_at": dto.CredentialExpiresAt,
		"delivered_at":          dto.DeliveredAt,
		"receipt_number":        dto.ReceiptNumber,
		"receipt_generated_at":  dto.ReceiptGeneratedAt,
	}
}
