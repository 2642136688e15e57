// Package queue defines the notification events exchanged over the
// message broker and the consumer that turns them into outbound mail
// work.  Publishing is always best-effort: a broker failure must never
// fail the operation that triggered the notification.
package queue

import (
    "time"

    "github.com/shopspring/decimal"
)

// NotificationQueueName is the durable queue all notification events
// are published to.
const NotificationQueueName = "notification.email"

// Kind discriminates notification payloads on the wire.
type Kind string

const (
    KindWelcome           Kind = "welcome"
    KindRoleChanged       Kind = "role_changed"
    KindDonationConfirmed Kind = "donation_confirmed"
    KindPurchaseConfirmed Kind = "purchase_confirmed"
)

// Notification is the envelope published to the notification queue.
// Only the fields relevant to the Kind are populated.
type Notification struct {
    Kind   Kind      `json:"kind"`
    Email  string    `json:"email"`
    Name   string    `json:"name"`
    SentAt time.Time `json:"sent_at"`

    // donation confirmation
    DestinationName string          `json:"destination_name,omitempty"`
    Amount          decimal.Decimal `json:"amount,omitempty"`
    PaymentID       string          `json:"payment_id,omitempty"`

    // purchase confirmation
    TicketCodes []string `json:"ticket_codes,omitempty"`

    // role change
    OldRole string `json:"old_role,omitempty"`
    NewRole string `json:"new_role,omitempty"`
}
