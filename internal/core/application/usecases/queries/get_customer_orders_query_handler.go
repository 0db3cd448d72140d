package queries

import (
	"context"
	"database/sql"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCustomerOrdersQueryHandler retrieves a customer's order history from the
// database. One joined query feeds the projection; rows are folded into
// per-order groups while scanning.
type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerOrdersQueryHandler creates a handler for customer order
// queries. Requires a GORM database connection for query execution.
func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve the customer's orders with their
// sub-order states. Expired confirmation codes are filtered out here so the
// customer never sees a code that can no longer be redeemed.
func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]GetCustomerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetCustomerOrdersQueryResponse, 0)
	now := time.Now().UTC()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.order_type,
			o.total_cents,
			o.is_cancelled,
			s.id,
			s.shop_id,
			s.status,
			s.subtotal_cents,
			s.receipt_number,
			s.credential_code,
			s.credential_expires_at,
			s.delivered_at
		FROM orders o
		JOIN sub_orders s ON s.order_id = o.id
		WHERE o.customer_id = ?
		ORDER BY o.id, s.id
	`, query.CustomerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, subOrderID, shopID uuid.UUID
		var orderNumber sql.NullInt64
		var orderType string
		var totalCents int64
		var isCancelled bool
		var status int
		var subtotalCents int64
		var receiptNumber, credentialCode sql.NullString
		var credentialExpiresAt, deliveredAt sql.NullTime

		err = rows.Scan(
			&orderID,
			&orderNumber,
			&orderType,
			&totalCents,
			&isCancelled,
			&subOrderID,
			&shopID,
			&status,
			&subtotalCents,
			&receiptNumber,
			&credentialCode,
			&credentialExpiresAt,
			&deliveredAt,
		)
		if err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}

		if len(orders) == 0 || !orders[len(orders)-1].OrderID.IsEqual(id) {
			resp := GetCustomerOrdersQueryResponse{
				OrderID:     id,
				OrderType:   orderType,
				TotalCents:  totalCents,
				IsCancelled: isCancelled,
				SubOrders:   make([]CustomerSubOrderResponse, 0),
			}
			if orderNumber.Valid {
				number := orderNumber.Int64
				resp.OrderNumber = &number
			}
			orders = append(orders, resp)
		}

		subOrder := CustomerSubOrderResponse{
			Status:        order.Status(status).String(),
			SubtotalCents: subtotalCents,
		}
		subOrder.SubOrderID, err = kernel.UUIDFromBytes(subOrderID[:])
		if err != nil {
			return nil, err
		}
		subOrder.ShopID, err = kernel.UUIDFromBytes(shopID[:])
		if err != nil {
			return nil, err
		}
		if receiptNumber.Valid {
			subOrder.ReceiptNumber = receiptNumber.String
		}
		if credentialCode.Valid && credentialExpiresAt.Valid && now.Before(credentialExpiresAt.Time) {
			expiresAt := credentialExpiresAt.Time
			subOrder.ConfirmationCode = credentialCode.String
			subOrder.CodeExpiresAt = &expiresAt
		}
		if deliveredAt.Valid {
			at := deliveredAt.Time
			subOrder.DeliveredAt = &at
		}

		orders[len(orders)-1].SubOrders = append(orders[len(orders)-1].SubOrders, subOrder)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
