package commands

import "time"

// Notification payloads published through the notification bus after a
// command commits. They carry plain strings so transport adapters can
// serialize them without importing domain types.

// NewOrderNotification tells a shop owner a sub-order arrived for their shop.
type NewOrderNotification struct {
	OrderID       string
	SubOrderID    string
	ShopID        string
	SubtotalCents int64
}

// StatusChangedNotification tells a customer their sub-order moved. The
// confirmation code travels here when one is live, so the customer always
// sees the current code alongside the status.
type StatusChangedNotification struct {
	OrderID          string
	SubOrderID       string
	Status           string
	ReceiptNumber    string
	WorkerID         string
	ConfirmationCode string
	CodeExpiresAt    *time.Time
}

// JobOfferNotification tells a worker a delivery job is open for claiming.
type JobOfferNotification struct {
	JobID      string
	SubOrderID string
	ShopID     string
}

// JobWithdrawnNotification tells a losing candidate the offer is gone.
type JobWithdrawnNotification struct {
	JobID string
}
