package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// CredentialSender delivers a confirmation code to the customer out-of-band
// (mail, SMS). Sending is best-effort: a failure must not fail the command
// that minted the code, since the code also travels on the status-changed
// push event.
type CredentialSender interface {
	Send(ctx context.Context, customerID kernel.UUID, code string, expiresAt time.Time) error
}
