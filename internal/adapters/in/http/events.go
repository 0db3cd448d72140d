package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// sseConnection adapts one server-sent-events response stream to
// ports.Connection. Sends are serialized so concurrent publishes cannot
// interleave frames.
type sseConnection struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
}

// NewSSEConnection wraps a response writer in a ports.Connection emitting
// server-sent-events frames. The writer must implement http.Flusher.
func NewSSEConnection(writer http.ResponseWriter) ports.Connection {
	flusher, _ := writer.(http.Flusher)
	return &sseConnection{writer: writer, flusher: flusher}
}

func (c *sseConnection) Send(event ports.Event) error {
	if c.flusher == nil {
		return fmt.Errorf("response writer does not support streaming")
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.writer, "event: %s\ndata: %s\n\n", event.Kind, payload); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

// StreamEvents handles GET /api/v1/events - a server-sent-events stream of
// push notifications for the calling actor. The stream stays open until the
// client disconnects; a reconnect replaces the previous stream.
func (s *Server) StreamEvents(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	writer := ctx.Response().Writer
	flusher, ok := writer.(http.Flusher)
	if !ok {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Streaming is not supported",
		})
	}

	header := ctx.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	ctx.Response().WriteHeader(http.StatusOK)

	conn := NewSSEConnection(writer)
	if _, err := fmt.Fprint(writer, ": connected\n\n"); err != nil {
		return err
	}
	flusher.Flush()

	s.bus.RegisterConnection(actor, conn)
	defer s.bus.UnregisterConnection(actor, conn)

	<-ctx.Request().Context().Done()
	return nil
}
