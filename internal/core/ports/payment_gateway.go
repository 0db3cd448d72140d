package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// PaymentGateway creates payment intents with the external payment provider
// for online-paid orders. The returned reference is stored on the order so
// the provider's callbacks can be correlated later; settlement itself happens
// outside this system.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (reference string, err error)
}
