package ports

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// EventKind classifies push events delivered over live connections.
type EventKind string

const (
	// EventNewOrder tells a shop owner a sub-order arrived for their shop.
	EventNewOrder EventKind = "new-order"
	// EventJobOffer tells a worker a delivery job is open for claiming.
	EventJobOffer EventKind = "job-offer"
	// EventJobWithdrawn tells a losing candidate the offer is gone.
	EventJobWithdrawn EventKind = "job-withdrawn"
	// EventStatusChanged tells a customer their sub-order moved.
	EventStatusChanged EventKind = "status-changed"
)

// Event is a push notification addressed to a single actor.
type Event struct {
	Kind    EventKind
	Payload any
}

// Connection is a live push channel to one actor. Implementations are
// expected to be safe for use from multiple goroutines.
type Connection interface {
	Send(event Event) error
}

// NotificationBus routes events to the live connections of actors.
//
// Delivery is fire-and-forget: publishing to an actor without a live
// connection is a silent no-op, and send failures are swallowed after
// logging. Events published sequentially by one goroutine to the same actor
// arrive in that order; concurrent publishers are serialized only by the
// connection itself. Nothing here is persisted.
type NotificationBus interface {
	// RegisterConnection makes conn the actor's current connection.
	// A later registration for the same actor wins over an earlier one.
	RegisterConnection(actorID kernel.UUID, conn Connection)

	// UnregisterConnection removes the actor's connection, but only if conn
	// is still the current one, so a stale disconnect cannot tear down a
	// newer connection.
	UnregisterConnection(actorID kernel.UUID, conn Connection)

	// PublishTo delivers the event to the actor's live connection, if any.
	PublishTo(actorID kernel.UUID, event Event)
}
