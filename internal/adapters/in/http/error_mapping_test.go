package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing aggregate", errs.ErrObjectNotFound, http.StatusNotFound},
		{"missing order", commands.ErrNoOrderFound, http.StatusNotFound},
		{"missing job", commands.ErrNoJobFound, http.StatusNotFound},
		{"missing worker", commands.ErrNoWorkerFound, http.StatusNotFound},
		{"wrong actor", commands.ErrActorNotAllowed, http.StatusForbidden},
		{"stale version", errs.ErrVersionIsInvalid, http.StatusConflict},
		{"lost claim race", dispatch.ErrJobAlreadyResolved, http.StatusConflict},
		{"worker at capacity", services.ErrWorkerAtCapacity, http.StatusConflict},
		{"invalid transition", order.ErrInvalidTransition, http.StatusConflict},
		{"repeated cancellation", order.ErrOrderAlreadyCancelled, http.StatusConflict},
		{"bad code", order.ErrInvalidOrExpiredCredential, http.StatusConflict},
		{"cash order payment", commands.ErrPaymentNotExpected, http.StatusConflict},
		{"unknown failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			require.NoError(t, commandError(ctx, tt.err, "operation failed"))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
