package queries

import (
	"context"
	"database/sql"
	"encoding/json"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetJobOffersQueryHandler retrieves open job offers from the database.
// Uses direct SQL for optimal read performance in the CQRS pattern: the
// broadcast set is matched inside the query instead of loading every job.
type GetJobOffersQueryHandler struct {
	db *gorm.DB
}

// NewGetJobOffersQueryHandler creates a handler for job offer queries.
// Requires a GORM database connection for query execution.
func NewGetJobOffersQueryHandler(db *gorm.DB) GetJobOffersQueryHandler {
	return GetJobOffersQueryHandler{db: db}
}

// Handle executes the query to retrieve jobs still broadcasting to the
// worker. Results are sorted by job ID for consistent output. A job whose
// sub-order has not produced a receipt yet comes back with an empty receipt
// number.
func (h GetJobOffersQueryHandler) Handle(
	ctx context.Context,
	query GetJobOffersQuery,
) ([]GetJobOffersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	offers := make([]GetJobOffersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.sub_order_id,
			j.shop_id,
			s.items,
			s.subtotal_cents,
			s.receipt_number
		FROM dispatch_jobs j
		JOIN sub_orders s ON s.id = j.sub_order_id
		WHERE j.status = ? AND ? = ANY(j.broadcast_to)
		ORDER BY j.id
	`, dispatch.Broadcasting, query.WorkerID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var offer GetJobOffersQueryResponse
		var jobID, subOrderID, shopID uuid.UUID
		var itemsRaw []byte
		var receiptNumber sql.NullString

		err = rows.Scan(
			&jobID,
			&subOrderID,
			&shopID,
			&itemsRaw,
			&offer.SubtotalCents,
			&receiptNumber,
		)
		if err != nil {
			return nil, err
		}

		offer.JobID, err = kernel.UUIDFromBytes(jobID[:])
		if err != nil {
			return nil, err
		}
		offer.SubOrderID, err = kernel.UUIDFromBytes(subOrderID[:])
		if err != nil {
			return nil, err
		}
		offer.ShopID, err = kernel.UUIDFromBytes(shopID[:])
		if err != nil {
			return nil, err
		}

		if err = json.Unmarshal(itemsRaw, &offer.Items); err != nil {
			return nil, err
		}
		if receiptNumber.Valid {
			offer.ReceiptNumber = receiptNumber.String
		}

		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
