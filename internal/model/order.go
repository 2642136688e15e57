package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Order groups one or more purchased tickets for a user.  The total
// amount is derived from the item subtotals at creation time and is
// never recomputed afterwards, even if the underlying ticket prices
// change.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who placed the order.
//  UserName      – full name of the user, joined at read time.
//  TotalAmount   – sum of item subtotals, fixed at creation.
//  PurchaseDate  – when the order was placed.
//  PaymentMethod – payment method label (defaults to "Mercado Pago").
//  PaymentID     – gateway payment identifier, nil until confirmed.
//  State         – purchase state (pending, approved, rejected, cancelled).
//  Items         – the order items, cascade-deleted with the order.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Order struct {
    ID            uint64          // orders.id
    UserID        uint64          // orders.user_id
    UserName      string          // joined from users.name + users.last_name
    TotalAmount   decimal.Decimal // orders.total_amount
    PurchaseDate  time.Time       // orders.purchase_date
    PaymentMethod string          // orders.payment_method
    PaymentID     *string         // orders.payment_id (nullable)
    State         PurchaseState   // orders.purchase_state
    Items         []OrderItem     // order_items rows for this order
    CreatedAt     time.Time       // orders.created_at
    UpdatedAt     time.Time       // orders.updated_at
}

// OrderItem is one line of an order.  Quantity is modeled as a
// multiplier although the domain treats one ticket as one seat.  The
// unit price is a snapshot of the ticket price when the order was
// created.
type OrderItem struct {
    ID           uint64          // order_items.id
    OrderID      uint64          // order_items.order_id
    TicketID     uint64          // order_items.ticket_id
    TicketCode   string          // joined from tickets.code
    LocationName string          // joined from locations.name
    Quantity     int             // order_items.quantity
    UnitPrice    decimal.Decimal // order_items.unit_price
    Subtotal     decimal.Decimal // order_items.subtotal = unit_price * quantity
}
