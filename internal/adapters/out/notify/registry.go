// Package notify provides the in-process notification bus. It keeps one live
// connection per actor and fans events out to whoever is connected; actors
// without a connection simply miss the push and catch up through the read
// queries.
package notify

import (
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// ConnectionRegistry implements ports.NotificationBus with an in-memory map
// of live connections keyed by actor ID. All methods are safe for concurrent
// use. PublishTo takes only a read lock, so concurrent publishers may reach
// the same connection at once; serializing writes to a single connection is
// the connection's job (ports.Connection implementations must be
// goroutine-safe).
type ConnectionRegistry struct {
	mu          sync.RWMutex
	connections map[kernel.UUID]ports.Connection
	logger      *slog.Logger
}

// NewConnectionRegistry creates an empty connection registry.
func NewConnectionRegistry(logger *slog.Logger) *ConnectionRegistry {
	return &ConnectionRegistry{
		connections: make(map[kernel.UUID]ports.Connection),
		logger:      logger.With("component", "notification_registry"),
	}
}

// RegisterConnection makes conn the actor's current connection. A reconnect
// replaces the previous connection without waiting for its disconnect.
func (r *ConnectionRegistry) RegisterConnection(actorID kernel.UUID, conn ports.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[actorID] = conn
}

// UnregisterConnection removes the actor's connection, but only if conn is
// still the current one. A stale disconnect arriving after a reconnect must
// not tear down the newer connection.
func (r *ConnectionRegistry) UnregisterConnection(actorID kernel.UUID, conn ports.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connections[actorID] == conn {
		delete(r.connections, actorID)
	}
}

// PublishTo delivers the event to the actor's live connection. No connection
// means the event is dropped; a failing send is logged and swallowed.
func (r *ConnectionRegistry) PublishTo(actorID kernel.UUID, event ports.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[actorID]
	if !ok {
		return
	}

	if err := conn.Send(event); err != nil {
		r.logger.Warn("Dropping undeliverable event",
			"actor_id", actorID.String(), "kind", string(event.Kind), "error", err)
	}
}
