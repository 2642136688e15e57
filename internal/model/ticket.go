package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Ticket is an individually coded, individually priced seat instance
// for a dated event.  Created available; flipped to unavailable when
// sold, flipped back on order cancellation.  The price is a snapshot
// of the location price at creation time.
//
// Fields:
//  ID           – primary key identifier.
//  Code         – globally unique ticket code (e.g. TKT-3F9A01BC).
//  LocationID   – sector this ticket belongs to.
//  LocationName – sector name, joined at read time from locations.name.
//  Price        – price snapshot taken at creation.
//  EventDate    – date and time of the event the ticket admits to.
//  Available    – true until the ticket is sold.
//  CreatedAt    – timestamp of creation.
type Ticket struct {
    ID           uint64          // tickets.id
    Code         string          // tickets.code (unique)
    LocationID   uint64          // tickets.location_id
    LocationName string          // joined from locations.name
    Price        decimal.Decimal // tickets.price
    EventDate    time.Time       // tickets.date_time
    Available    bool            // tickets.available
    CreatedAt    time.Time       // tickets.created_at
}
