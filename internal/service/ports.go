// Package service implements the domain operations of the club
// backend: order and donation lifecycles, the payment-preference
// bridge, destination management and the event reconstruction view.
// Services depend on small store interfaces rather than on the
// concrete repositories so that the logic can be exercised with fakes.
package service

import (
    "context"
    "time"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
    "github.com/113992-Menzi-Facundo/MundoPirata/internal/payment"
    "github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
)

// UserStore is the subset of the user repository the services need.
type UserStore interface {
    GetByID(ctx context.Context, id uint64) (*model.User, error)
    GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TicketStore is the subset of the ticket repository the services need.
// MarkSold must be a conditional available -> sold transition that
// fails with repository.ErrConflict when the ticket is already sold.
type TicketStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
    GetByIDs(ctx context.Context, ids []uint64) ([]model.Ticket, error)
    ListAll(ctx context.Context) ([]model.Ticket, error)
    MarkSold(ctx context.Context, id uint64) error
    MarkAvailable(ctx context.Context, id uint64) error
}

// OrderStore persists orders.  Create must claim every referenced
// ticket atomically with the order insert, failing with
// repository.ErrConflict when any ticket is no longer available.
type OrderStore interface {
    Create(ctx context.Context, o *model.Order) error
    GetByID(ctx context.Context, id uint64) (*model.Order, error)
    ListAll(ctx context.Context) ([]model.Order, error)
    ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
    ListByState(ctx context.Context, state model.PurchaseState) ([]model.Order, error)
    UpdateState(ctx context.Context, id uint64, state model.PurchaseState) error
    UpdatePaymentID(ctx context.Context, id uint64, paymentID string) error
}

// DonationStore persists donations.
type DonationStore interface {
    Create(ctx context.Context, d *model.Donation) error
    GetByID(ctx context.Context, id uint64) (*model.Donation, error)
    ListAll(ctx context.Context) ([]model.Donation, error)
    ListByUser(ctx context.Context, userID uint64) ([]model.Donation, error)
    ListByDestination(ctx context.Context, destinationID uint64) ([]model.Donation, error)
    ListByState(ctx context.Context, state model.PurchaseState) ([]model.Donation, error)
    UpdateState(ctx context.Context, id uint64, state model.PurchaseState) error
    UpdatePaymentID(ctx context.Context, id uint64, paymentID string) error
    CountByDestination(ctx context.Context, destinationID uint64) (int64, error)
}

// DestinationStore persists donation destinations.
type DestinationStore interface {
    Create(ctx context.Context, d *model.Destination) error
    GetByID(ctx context.Context, id uint64) (*model.Destination, error)
    List(ctx context.Context, activeOnly bool) ([]model.Destination, error)
    Update(ctx context.Context, d *model.Destination) error
    Delete(ctx context.Context, id uint64) error
}

// CalendarStore is the read access the event reconstruction view needs.
type CalendarStore interface {
    List(ctx context.Context, activeOnly bool) ([]model.Calendar, error)
}

// Notifier publishes best-effort notification events.  Implementations
// must never panic; failures are logged by the caller and never
// propagated to API clients.
type Notifier interface {
    Publish(ctx context.Context, n queue.Notification) error
}

// PreferenceCreator is the payment-gateway surface the checkout bridge
// uses.  Satisfied by *payment.Client.
type PreferenceCreator interface {
    CreatePreference(ctx context.Context, pr payment.PreferenceRequest) (*payment.Preference, error)
    CheckoutURL(p *payment.Preference) string
}

// TitleLookup maps an event day to a display title for tickets that
// have no matching calendar entry.  The mapping is supplied at
// configuration time; ok reports whether the day is known.
type TitleLookup func(day time.Time) (title string, ok bool)
