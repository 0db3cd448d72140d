package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetJobOffersQueryIsNotConstructed = errors.New(
		"GetJobOffersQuery must be created via NewGetJobOffersQuery constructor",
	)
)

// GetJobOffersQuery retrieves the open delivery jobs offered to one worker.
// Returns jobs still broadcasting where the worker is among the candidates,
// so the worker app can render its offer feed.
//
// Example:
//
//	query, err := NewGetJobOffersQuery(workerID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetJobOffersQueryHandler(db)
//
//	offers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get job offers: %w", err)
//	}
//
//	fmt.Printf("%d jobs on offer\n", len(offers))
type GetJobOffersQuery struct {
	workerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetJobOffersQuery creates a query for one worker's open job offers.
func NewGetJobOffersQuery(workerID kernel.UUID) (GetJobOffersQuery, error) {
	if err := workerID.Validate(); err != nil {
		return GetJobOffersQuery{}, err
	}

	return GetJobOffersQuery{
		workerID: workerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// WorkerID returns the worker whose offers are requested.
func (q GetJobOffersQuery) WorkerID() kernel.UUID {
	return q.workerID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetJobOffersQueryIsNotConstructed if validation fails.
func (q GetJobOffersQuery) Validate() error {
	return q.guard.Validate(ErrGetJobOffersQueryIsNotConstructed)
}

// JobOfferItemResponse is one line item of the offered sub-order, snapshotted
// at order placement.
type JobOfferItemResponse struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// GetJobOffersQueryResponse represents one open job offer: the job identity
// plus enough of the sub-order for the worker to judge the trip.
type GetJobOffersQueryResponse struct {
	JobID         kernel.UUID
	SubOrderID    kernel.UUID
	ShopID        kernel.UUID
	Items         []JobOfferItemResponse
	SubtotalCents int64
	ReceiptNumber string
}
