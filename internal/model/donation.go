package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Donation records a contribution earmarked for a destination.  Unlike
// orders, donations hold no resource and need no compensating action on
// cancellation.  Amount must be positive.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – donor.
//  UserName           – donor full name, joined at read time.
//  UserEmail          – donor email, joined at read time (for notifications).
//  DestinationID      – the cause the donation is earmarked for.
//  DestinationName    – destination name, joined at read time.
//  DestinationAddress – destination address, joined at read time.
//  Amount             – positive donation amount.
//  DonationDate       – when the donation was made.
//  PaymentMethod      – payment method label.
//  PaymentID          – gateway payment identifier, nil until confirmed.
//  State              – purchase state.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Donation struct {
    ID                 uint64          // donations.id
    UserID             uint64          // donations.user_id
    UserName           string          // joined from users
    UserEmail          string          // joined from users.email
    DestinationID      uint64          // donations.destination_id
    DestinationName    string          // joined from destinations.name
    DestinationAddress string          // joined from destinations.address
    Amount             decimal.Decimal // donations.amount
    DonationDate       time.Time       // donations.donation_date
    PaymentMethod      string          // donations.payment_method
    PaymentID          *string         // donations.payment_id (nullable)
    State              PurchaseState   // donations.purchase_state
    CreatedAt          time.Time       // donations.created_at
    UpdatedAt          time.Time       // donations.updated_at
}

// Destination is a named cause donations are earmarked for.  It cannot
// be deleted while any donation references it.
type Destination struct {
    ID      uint64 // destinations.id
    Name    string // destinations.name
    Address string // destinations.address
    Phone   string // destinations.phone_number
    Active  bool   // destinations.state
}
