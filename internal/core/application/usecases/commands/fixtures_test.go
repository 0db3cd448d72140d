package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// Aggregate builders shared by the handler tests.

func testMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func testLineItems(t *testing.T) []order.LineItem {
	t.Helper()
	item, err := order.NewLineItem("burger", testMoney(t, 500), 2)
	require.NoError(t, err)
	return []order.LineItem{item}
}

func testSubOrder(t *testing.T, ownerID kernel.UUID) *order.SubOrder {
	t.Helper()
	so, err := order.NewSubOrder(kernel.NewUUID(), kernel.NewUUID(), ownerID, testLineItems(t))
	require.NoError(t, err)
	return so
}

// testSubOrderInStatus restores a sub-order directly into the given status.
func testSubOrderInStatus(
	t *testing.T, ownerID kernel.UUID, status order.Status, credential *order.Credential,
) *order.SubOrder {
	t.Helper()
	items := testLineItems(t)
	subtotal := testMoney(t, 1000)
	so, err := order.RestoreSubOrder(
		kernel.NewUUID(), kernel.NewUUID(), ownerID,
		items, subtotal,
		order.Shares{
			Owner:      testMoney(t, 700),
			Worker:     testMoney(t, 800),
			Platform:   testMoney(t, 200),
			PaymentFee: testMoney(t, 20),
		},
		status,
		nil, nil, credential, nil, nil,
	)
	require.NoError(t, err)
	return so
}

func testOrder(t *testing.T, customerID kernel.UUID, orderType order.OrderType, subOrders ...*order.SubOrder) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), customerID,
		order.PaymentCash, orderType,
		"12 Baker Street", kernel.Location{},
		testMoney(t, 1000), "",
		subOrders,
	)
	require.NoError(t, err)
	return o
}

func testCredential(t *testing.T, code string, issuedAt time.Time) *order.Credential {
	t.Helper()
	cred, err := order.NewCredential(code, issuedAt)
	require.NoError(t, err)
	return &cred
}
