package model

import "github.com/shopspring/decimal"

// Location is immutable reference data describing a sector of the
// stadium.  Many tickets reference one location.  The price is the
// current list price; tickets copy it at creation time and are never
// re-priced afterwards.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – sector name (e.g. "Popular Pirata").
//  Capacity – number of seats the sector holds.
//  Price    – current unit price for a ticket in this sector.
type Location struct {
    ID       uint64          // locations.id
    Name     string          // locations.name
    Capacity uint32          // locations.capacity
    Price    decimal.Decimal // locations.price
}
