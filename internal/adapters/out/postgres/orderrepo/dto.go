// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling the conversion between domain entities and database
// representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Sub-orders live in their own table so the fulfillment state machine can
// issue conditional single-row writes against them.
type OrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber         *int64    `gorm:"uniqueIndex"`
	CustomerID          uuid.UUID `gorm:"type:uuid;index"`
	PaymentMethod       string    `gorm:"type:varchar(16)"`
	OrderType           string    `gorm:"type:varchar(16)"`
	DeliveryAddress     string
	DeliveryLatitude    *float64
	DeliveryLongitude   *float64
	TotalCents          int64
	PaymentReference    string
	Paid                bool
	IsCancelled         bool
	CancellationReason  string
	CancelledAt         *time.Time
	SpecialInstructions string
	SubOrders           []SubOrderDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// SubOrderDTO represents the database structure for one shop's slice of an
// order. The line item snapshot is stored as a JSON document; the mutable
// fulfillment fields are plain columns so they can be written conditionally.
type SubOrderDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"type:uuid;index"`
	ShopID              uuid.UUID `gorm:"type:uuid;index"`
	OwnerID             uuid.UUID `gorm:"type:uuid;index"`
	Items               []byte    `gorm:"type:jsonb"`
	SubtotalCents       int64
	OwnerShareCents     int64
	WorkerShareCents    int64
	PlatformShareCents  int64
	PaymentFeeCents     int64
	Status              int        `gorm:"index"`
	AssignedWorkerID    *uuid.UUID `gorm:"type:uuid;index"`
	DispatchJobID       *uuid.UUID `gorm:"type:uuid"`
	CredentialCode      *string
	CredentialIssuedAt  *time.Time
	CredentialExpiresAt *time.Time
	DeliveredAt         *time.Time
	ReceiptNumber       *string
	ReceiptGeneratedAt  *time.Time
}

// TableName specifies the database table name for sub-order entities.
func (SubOrderDTO) TableName() string {
	return "sub_orders"
}

// lineItemDTO is the JSON shape of one frozen line item snapshot. The field
// names are shared with the read-side projections.
type lineItemDTO struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	dto := OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		OrderNumber:         aggregate.Number(),
		CustomerID:          aggregate.CustomerID().Bytes(),
		PaymentMethod:       string(aggregate.PaymentMethod()),
		OrderType:           string(aggregate.Type()),
		DeliveryAddress:     aggregate.DeliveryAddress(),
		TotalCents:          aggregate.TotalAmount().Cents(),
		PaymentReference:    aggregate.PaymentReference(),
		Paid:                aggregate.IsPaid(),
		IsCancelled:         aggregate.IsCancelled(),
		CancellationReason:  aggregate.CancellationReason(),
		CancelledAt:         aggregate.CancelledAt(),
		SpecialInstructions: aggregate.SpecialInstructions(),
	}

	if location := aggregate.DeliveryLocation(); location.Validate() == nil {
		latitude := location.Latitude()
		longitude := location.Longitude()
		dto.DeliveryLatitude = &latitude
		dto.DeliveryLongitude = &longitude
	}

	for _, subOrder := range aggregate.SubOrders() {
		subDTO, err := subOrderFromDomain(aggregate.ID(), subOrder)
		if err != nil {
			return OrderDTO{}, err
		}
		dto.SubOrders = append(dto.SubOrders, subDTO)
	}

	return dto, nil
}

// subOrderFromDomain converts one sub-order entity to its database
// representation.
func subOrderFromDomain(orderID kernel.UUID, subOrder *order.SubOrder) (SubOrderDTO, error) {
	itemsRaw, err := marshalItems(subOrder.Items())
	if err != nil {
		return SubOrderDTO{}, err
	}

	shares := subOrder.Shares()
	dto := SubOrderDTO{
		ID:                 subOrder.ID().Bytes(),
		OrderID:            orderID.Bytes(),
		ShopID:             subOrder.ShopID().Bytes(),
		OwnerID:            subOrder.OwnerID().Bytes(),
		Items:              itemsRaw,
		SubtotalCents:      subOrder.Subtotal().Cents(),
		OwnerShareCents:    shares.Owner.Cents(),
		WorkerShareCents:   shares.Worker.Cents(),
		PlatformShareCents: shares.Platform.Cents(),
		PaymentFeeCents:    shares.PaymentFee.Cents(),
		Status:             int(subOrder.Status()),
		DeliveredAt:        subOrder.DeliveredAt(),
	}

	if workerID := subOrder.AssignedWorker(); workerID != nil {
		raw := workerID.Bytes()
		dto.AssignedWorkerID = &raw
	}
	if jobID := subOrder.DispatchJob(); jobID != nil {
		raw := jobID.Bytes()
		dto.DispatchJobID = &raw
	}
	if credential := subOrder.Credential(); credential != nil {
		code := credential.Code()
		issuedAt := credential.IssuedAt()
		expiresAt := credential.ExpiresAt()
		dto.CredentialCode = &code
		dto.CredentialIssuedAt = &issuedAt
		dto.CredentialExpiresAt = &expiresAt
	}
	if receipt := subOrder.Receipt(); receipt != nil {
		number := receipt.Number()
		generatedAt := receipt.GeneratedAt()
		dto.ReceiptNumber = &number
		dto.ReceiptGeneratedAt = &generatedAt
	}

	return dto, nil
}

// marshalItems serializes the frozen line item snapshot.
func marshalItems(items []order.LineItem) ([]byte, error) {
	itemDTOs := make([]lineItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, lineItemDTO{
			Name:       item.Name(),
			PriceCents: item.Price().Cents(),
			Quantity:   item.Quantity(),
		})
	}
	return json.Marshal(itemDTOs)
}

// unmarshalItems rebuilds the line item snapshot from its JSON document.
func unmarshalItems(raw []byte) ([]order.LineItem, error) {
	var itemDTOs []lineItemDTO
	if err := json.Unmarshal(raw, &itemDTOs); err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		price, err := kernel.NewMoney(itemDTO.PriceCents)
		if err != nil {
			return nil, err
		}
		item, err := order.NewLineItem(itemDTO.Name, price, itemDTO.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// toDomain converts a database DTO to an order aggregate, reconstructing
// every sub-order with its frozen snapshots.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var deliveryLocation kernel.Location
	if dto.DeliveryLatitude != nil && dto.DeliveryLongitude != nil {
		deliveryLocation, err = kernel.NewLocation(*dto.DeliveryLatitude, *dto.DeliveryLongitude)
		if err != nil {
			return nil, err
		}
	}

	totalAmount, err := kernel.NewMoney(dto.TotalCents)
	if err != nil {
		return nil, err
	}

	subOrders := make([]*order.SubOrder, 0, len(dto.SubOrders))
	for _, subDTO := range dto.SubOrders {
		subOrder, subErr := subOrderToDomain(subDTO)
		if subErr != nil {
			return nil, subErr
		}
		subOrders = append(subOrders, subOrder)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		customerID,
		order.PaymentMethod(dto.PaymentMethod),
		order.OrderType(dto.OrderType),
		dto.DeliveryAddress,
		deliveryLocation,
		totalAmount,
		dto.PaymentReference,
		dto.Paid,
		dto.IsCancelled,
		dto.CancellationReason,
		dto.CancelledAt,
		dto.SpecialInstructions,
		subOrders,
	)
}

// subOrderToDomain converts a sub-order row back to its domain entity.
func subOrderToDomain(dto SubOrderDTO) (*order.SubOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	items, err := unmarshalItems(dto.Items)
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.SubtotalCents)
	if err != nil {
		return nil, err
	}
	shares, err := sharesFromDTO(dto)
	if err != nil {
		return nil, err
	}

	var assignedWorkerID *kernel.UUID
	if dto.AssignedWorkerID != nil {
		workerID, workerErr := kernel.UUIDFromBytes((*dto.AssignedWorkerID)[:])
		if workerErr != nil {
			return nil, workerErr
		}
		assignedWorkerID = &workerID
	}

	var dispatchJobID *kernel.UUID
	if dto.DispatchJobID != nil {
		jobID, jobErr := kernel.UUIDFromBytes((*dto.DispatchJobID)[:])
		if jobErr != nil {
			return nil, jobErr
		}
		dispatchJobID = &jobID
	}

	var credential *order.Credential
	if dto.CredentialCode != nil && dto.CredentialIssuedAt != nil && dto.CredentialExpiresAt != nil {
		restored, credErr := order.RestoreCredential(
			*dto.CredentialCode, *dto.CredentialIssuedAt, *dto.CredentialExpiresAt)
		if credErr != nil {
			return nil, credErr
		}
		credential = &restored
	}

	var receipt *order.Receipt
	if dto.ReceiptNumber != nil && dto.ReceiptGeneratedAt != nil {
		restored, receiptErr := order.NewReceipt(
			*dto.ReceiptNumber, *dto.ReceiptGeneratedAt, items, subtotal)
		if receiptErr != nil {
			return nil, receiptErr
		}
		receipt = &restored
	}

	return order.RestoreSubOrder(
		id, shopID, ownerID,
		items, subtotal, shares,
		order.Status(dto.Status),
		assignedWorkerID, dispatchJobID,
		credential,
		dto.DeliveredAt,
		receipt,
	)
}

// sharesFromDTO rebuilds the frozen revenue split from its stored cents.
func sharesFromDTO(dto SubOrderDTO) (order.Shares, error) {
	ownerShare, err := kernel.NewMoney(dto.OwnerShareCents)
	if err != nil {
		return order.Shares{}, err
	}
	workerShare, err := kernel.NewMoney(dto.WorkerShareCents)
	if err != nil {
		return order.Shares{}, err
	}
	platformShare, err := kernel.NewMoney(dto.PlatformShareCents)
	if err != nil {
		return order.Shares{}, err
	}
	paymentFee, err := kernel.NewMoney(dto.PaymentFeeCents)
	if err != nil {
		return order.Shares{}, err
	}

	return order.Shares{
		Owner:      ownerShare,
		Worker:     workerShare,
		Platform:   platformShare,
		PaymentFee: paymentFee,
	}, nil
}
