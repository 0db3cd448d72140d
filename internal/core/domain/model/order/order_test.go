package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func makeItems(t *testing.T) []order.LineItem {
	t.Helper()
	burger, err := order.NewLineItem("burger", mustMoney(t, 500), 2)
	require.NoError(t, err)
	fries, err := order.NewLineItem("fries", mustMoney(t, 250), 1)
	require.NoError(t, err)
	return []order.LineItem{burger, fries}
}

func makeSubOrder(t *testing.T) *order.SubOrder {
	t.Helper()
	so, err := order.NewSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), makeItems(t))
	require.NoError(t, err)
	return so
}

func makeOrder(t *testing.T, orderType order.OrderType, subOrders ...*order.SubOrder) *order.Order {
	t.Helper()
	if len(subOrders) == 0 {
		subOrders = []*order.SubOrder{makeSubOrder(t)}
	}
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(),
		order.PaymentCash, orderType,
		"12 Baker Street", kernel.Location{},
		mustMoney(t, 1250), "",
		subOrders,
	)
	require.NoError(t, err)
	return o
}

func TestNewSubOrder(t *testing.T) {
	t.Run("derives_subtotal_and_frozen_shares", func(t *testing.T) {
		so := makeSubOrder(t)

		assert.Equal(t, int64(1250), so.Subtotal().Cents())
		assert.Equal(t, int64(875), so.Shares().Owner.Cents())
		assert.Equal(t, int64(1000), so.Shares().Worker.Cents())
		assert.Equal(t, int64(250), so.Shares().Platform.Cents())
		assert.Equal(t, int64(25), so.Shares().PaymentFee.Cents())
		assert.Equal(t, order.Pending, so.Status())
	})

	t.Run("rejects_empty_item_list", func(t *testing.T) {
		_, err := order.NewSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil)
		require.Error(t, err)
	})
}

func TestNewOrder(t *testing.T) {
	t.Run("delivery_order_requires_address", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			order.PaymentCash, order.TypeDelivery,
			"", kernel.Location{},
			mustMoney(t, 100), "",
			[]*order.SubOrder{makeSubOrder(t)},
		)
		require.Error(t, err)
	})

	t.Run("pickup_order_needs_no_address", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			order.PaymentCash, order.TypePickup,
			"", kernel.Location{},
			mustMoney(t, 100), "",
			[]*order.SubOrder{makeSubOrder(t)},
		)
		require.NoError(t, err)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_AssignNumber(t *testing.T) {
	o := makeOrder(t, order.TypeDelivery)

	require.NoError(t, o.AssignNumber(41))
	require.NotNil(t, o.Number())
	assert.Equal(t, int64(41), *o.Number())

	require.ErrorIs(t, o.AssignNumber(42), order.ErrOrderNumberAssigned)
	assert.Equal(t, int64(41), *o.Number())
}

func TestOrder_ChangeSubOrderStatus(t *testing.T) {
	now := time.Now()

	t.Run("first_fulfillment_transition_freezes_receipt", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)
		require.NoError(t, o.AssignNumber(7))

		_, changed, err := o.ChangeSubOrderStatus(so.ID(), order.Confirmed, now)
		require.NoError(t, err)
		assert.True(t, changed)

		receipt := so.Receipt()
		require.NotNil(t, receipt)
		assert.Contains(t, receipt.Number(), "R-7-")
		assert.Equal(t, int64(1250), receipt.Subtotal().Cents())
		assert.Len(t, receipt.Items(), 2)

		// Further transitions must not regenerate the receipt.
		first := receipt.Number()
		_, _, err = o.ChangeSubOrderStatus(so.ID(), order.Preparing, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, first, so.Receipt().Number())
	})

	t.Run("pickup_order_never_goes_out_for_delivery", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypePickup, so)

		_, _, err := o.ChangeSubOrderStatus(so.ID(), order.OutForDelivery, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Pending, so.Status())
	})

	t.Run("pickup_delivered_stamps_time_and_clears_references", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypePickup, so)

		_, changed, err := o.ChangeSubOrderStatus(so.ID(), order.Delivered, now)
		require.NoError(t, err)
		assert.True(t, changed)
		require.NotNil(t, so.DeliveredAt())
		assert.Nil(t, so.AssignedWorker())
		assert.Nil(t, so.DispatchJob())
	})

	t.Run("idempotent_reapplication_reports_no_change", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)

		_, _, err := o.ChangeSubOrderStatus(so.ID(), order.Confirmed, now)
		require.NoError(t, err)

		_, changed, err := o.ChangeSubOrderStatus(so.ID(), order.Confirmed, now)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("locked_status_rejects_other_targets", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)

		_, _, err := o.ChangeSubOrderStatus(so.ID(), order.OutForDelivery, now)
		require.NoError(t, err)

		_, _, err = o.ChangeSubOrderStatus(so.ID(), order.Preparing, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("unknown_suborder_is_not_found", func(t *testing.T) {
		o := makeOrder(t, order.TypeDelivery)
		_, _, err := o.ChangeSubOrderStatus(kernel.NewUUID(), order.Confirmed, now)
		require.Error(t, err)
	})
}

func TestOrder_Cancel(t *testing.T) {
	now := time.Now()

	t.Run("cancels_all_pending_suborders", func(t *testing.T) {
		so1 := makeSubOrder(t)
		so2 := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so1, so2)

		require.NoError(t, o.Cancel("changed mind", now))
		assert.True(t, o.IsCancelled())
		assert.Equal(t, "changed mind", o.CancellationReason())
		require.NotNil(t, o.CancelledAt())
		assert.Equal(t, order.Cancelled, so1.Status())
		assert.Equal(t, order.Cancelled, so2.Status())
	})

	t.Run("second_cancel_fails", func(t *testing.T) {
		o := makeOrder(t, order.TypeDelivery)
		require.NoError(t, o.Cancel("changed mind", now))
		require.ErrorIs(t, o.Cancel("again", now), order.ErrOrderAlreadyCancelled)
	})

	t.Run("rejected_once_any_suborder_left_pending", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)
		_, _, err := o.ChangeSubOrderStatus(so.ID(), order.Confirmed, now)
		require.NoError(t, err)

		require.ErrorIs(t, o.Cancel("too late", now), order.ErrInvalidTransition)
		assert.False(t, o.IsCancelled())
	})

	t.Run("transitions_are_rejected_after_cancellation", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)
		require.NoError(t, o.Cancel("changed mind", now))

		_, _, err := o.ChangeSubOrderStatus(so.ID(), order.Confirmed, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_IssueCredential(t *testing.T) {
	now := time.Now()

	t.Run("mints_code_with_two_hour_expiry", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)

		cred, minted, err := o.IssueCredential(so.ID(), "1234", now)
		require.NoError(t, err)
		assert.True(t, minted)
		assert.Equal(t, "1234", cred.Code())
		assert.Equal(t, now.Add(order.CredentialTTL), cred.ExpiresAt())
	})

	t.Run("reissue_within_validity_window_returns_same_code", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)

		first, _, err := o.IssueCredential(so.ID(), "1234", now)
		require.NoError(t, err)

		second, minted, err := o.IssueCredential(so.ID(), "9876", now.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, minted)
		assert.Equal(t, first.Code(), second.Code())
	})

	t.Run("reissue_after_expiry_mints_fresh_code", func(t *testing.T) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)

		_, _, err := o.IssueCredential(so.ID(), "1234", now)
		require.NoError(t, err)

		cred, minted, err := o.IssueCredential(so.ID(), "9876", now.Add(3*time.Hour))
		require.NoError(t, err)
		assert.True(t, minted)
		assert.Equal(t, "9876", cred.Code())
	})
}

func TestOrder_RedeemCredential(t *testing.T) {
	now := time.Now()

	setup := func(t *testing.T) (*order.Order, *order.SubOrder) {
		so := makeSubOrder(t)
		o := makeOrder(t, order.TypeDelivery, so)
		_, _, err := o.ChangeSubOrderStatus(so.ID(), order.OutForDelivery, now)
		require.NoError(t, err)
		_, _, err = o.IssueCredential(so.ID(), "1234", now)
		require.NoError(t, err)
		return o, so
	}

	t.Run("correct_code_delivers_and_clears_credential", func(t *testing.T) {
		o, so := setup(t)

		require.NoError(t, o.RedeemCredential(so.ID(), "1234", now.Add(time.Minute)))
		assert.Equal(t, order.Delivered, so.Status())
		require.NotNil(t, so.DeliveredAt())
		assert.Nil(t, so.Credential())
		assert.Nil(t, so.DispatchJob())
	})

	t.Run("redemption_is_not_repeatable", func(t *testing.T) {
		o, so := setup(t)
		require.NoError(t, o.RedeemCredential(so.ID(), "1234", now))

		err := o.RedeemCredential(so.ID(), "1234", now)
		require.ErrorIs(t, err, order.ErrInvalidOrExpiredCredential)
	})

	t.Run("wrong_code_is_rejected", func(t *testing.T) {
		o, so := setup(t)
		err := o.RedeemCredential(so.ID(), "0000", now)
		require.ErrorIs(t, err, order.ErrInvalidOrExpiredCredential)
		assert.Equal(t, order.OutForDelivery, so.Status())
	})

	t.Run("expired_code_is_rejected", func(t *testing.T) {
		o, so := setup(t)
		err := o.RedeemCredential(so.ID(), "1234", now.Add(order.CredentialTTL+time.Second))
		require.ErrorIs(t, err, order.ErrInvalidOrExpiredCredential)
	})
}

func TestOrder_SubOrdersAwaitingCredential(t *testing.T) {
	now := time.Now()
	so1 := makeSubOrder(t)
	so2 := makeSubOrder(t)
	o := makeOrder(t, order.TypeDelivery, so1, so2)

	_, _, err := o.ChangeSubOrderStatus(so1.ID(), order.OutForDelivery, now)
	require.NoError(t, err)
	_, _, err = o.ChangeSubOrderStatus(so2.ID(), order.OutForDelivery, now)
	require.NoError(t, err)

	_, _, err = o.IssueCredential(so1.ID(), "1234", now.Add(-3*time.Hour))
	require.NoError(t, err)

	t.Run("expired_and_missing_codes_are_stale", func(t *testing.T) {
		stale := o.SubOrdersAwaitingCredential(now)
		assert.Len(t, stale, 2)
	})

	t.Run("valid_code_is_skipped", func(t *testing.T) {
		_, _, err := o.IssueCredential(so2.ID(), "5678", now)
		require.NoError(t, err)

		stale := o.SubOrdersAwaitingCredential(now)
		require.Len(t, stale, 1)
		assert.True(t, stale[0].ID().IsEqual(so1.ID()))
	})

	t.Run("redeemed_suborder_is_skipped", func(t *testing.T) {
		_, _, err := o.IssueCredential(so1.ID(), "4321", now)
		require.NoError(t, err)
		require.NoError(t, o.RedeemCredential(so1.ID(), "4321", now))

		assert.Empty(t, o.SubOrdersAwaitingCredential(now.Add(10*time.Hour)))
	})
}
