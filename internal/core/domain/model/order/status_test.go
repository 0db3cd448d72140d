package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    order.Status
		wantErr bool
	}{
		{"pending", order.Pending, false},
		{"confirmed", order.Confirmed, false},
		{"preparing", order.Preparing, false},
		{"out_for_delivery", order.OutForDelivery, false},
		{"delivered", order.Delivered, false},
		{"rejected", order.Rejected, false},
		{"cancelled", order.Cancelled, false},
		{"unknown", order.Unknown, true},
		{"shipped", order.Unknown, true},
		{"", order.Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := order.StatusFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "out_for_delivery", order.OutForDelivery.String())
	assert.Equal(t, "unknown", order.Status(42).String())
}

func TestStatus_IsLocked(t *testing.T) {
	locked := []order.Status{order.OutForDelivery, order.Delivered, order.Rejected, order.Cancelled}
	for _, s := range locked {
		assert.True(t, s.IsLocked(), s.String())
	}

	unlocked := []order.Status{order.Pending, order.Confirmed, order.Preparing}
	for _, s := range unlocked {
		assert.False(t, s.IsLocked(), s.String())
	}
}

func TestStatus_TriggersFulfillment(t *testing.T) {
	triggering := []order.Status{order.Confirmed, order.Preparing, order.OutForDelivery}
	for _, s := range triggering {
		assert.True(t, s.TriggersFulfillment(), s.String())
	}

	assert.False(t, order.Pending.TriggersFulfillment())
	assert.False(t, order.Delivered.TriggersFulfillment())
	assert.False(t, order.Cancelled.TriggersFulfillment())
}

func TestStatus_Transition(t *testing.T) {
	t.Run("advances_along_the_lifecycle", func(t *testing.T) {
		next, err := order.Pending.Transition(order.Confirmed)
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, next)

		next, err = next.Transition(order.Preparing)
		require.NoError(t, err)
		assert.Equal(t, order.Preparing, next)

		next, err = next.Transition(order.OutForDelivery)
		require.NoError(t, err)
		assert.Equal(t, order.OutForDelivery, next)
	})

	t.Run("rejection_branch_from_pending", func(t *testing.T) {
		next, err := order.Pending.Transition(order.Rejected)
		require.NoError(t, err)
		assert.Equal(t, order.Rejected, next)
	})

	t.Run("idempotent_reapplication_is_allowed_on_locked_status", func(t *testing.T) {
		for _, s := range []order.Status{order.OutForDelivery, order.Delivered, order.Rejected, order.Cancelled} {
			next, err := s.Transition(s)
			require.NoError(t, err, s.String())
			assert.Equal(t, s, next)
		}
	})

	t.Run("locked_status_rejects_any_other_target", func(t *testing.T) {
		for _, s := range []order.Status{order.OutForDelivery, order.Delivered, order.Rejected, order.Cancelled} {
			_, err := s.Transition(order.Preparing)
			require.ErrorIs(t, err, order.ErrInvalidTransition, s.String())
		}
	})

	t.Run("cancelled_is_unreachable_through_generic_path", func(t *testing.T) {
		_, err := order.Pending.Transition(order.Cancelled)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("invalid_target_is_rejected", func(t *testing.T) {
		_, err := order.Pending.Transition(order.Unknown)
		require.Error(t, err)
	})
}
