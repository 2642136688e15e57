package service

import (
    "time"

    "github.com/shopspring/decimal"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// CreateOrderInput is the payload for OrderService.CreateOrder.
type CreateOrderInput struct {
    UserID        uint64           `json:"user_id"`
    PaymentMethod string           `json:"payment_method"`
    Items         []OrderItemInput `json:"items"`
}

// OrderItemInput references one ticket and a quantity within an order.
type OrderItemInput struct {
    TicketID uint64 `json:"ticket_id"`
    Quantity int    `json:"quantity"`
}

// OrderDTO is the API representation of an order.
type OrderDTO struct {
    ID            uint64          `json:"id"`
    UserID        uint64          `json:"user_id"`
    UserName      string          `json:"user_name"`
    PurchaseDate  time.Time       `json:"purchase_date"`
    PaymentMethod string          `json:"payment_method"`
    PaymentID     *string         `json:"payment_id,omitempty"`
    State         string          `json:"state"`
    TotalAmount   decimal.Decimal `json:"total_amount"`
    Items         []OrderItemDTO  `json:"items"`
}

// OrderItemDTO is the API representation of one order line.
type OrderItemDTO struct {
    ID           uint64          `json:"id"`
    TicketID     uint64          `json:"ticket_id"`
    TicketCode   string          `json:"ticket_code"`
    LocationName string          `json:"location_name"`
    Quantity     int             `json:"quantity"`
    UnitPrice    decimal.Decimal `json:"unit_price"`
    Subtotal     decimal.Decimal `json:"subtotal"`
}

func orderToDTO(o *model.Order) *OrderDTO {
    dto := &OrderDTO{
        ID:            o.ID,
        UserID:        o.UserID,
        UserName:      o.UserName,
        PurchaseDate:  o.PurchaseDate,
        PaymentMethod: o.PaymentMethod,
        PaymentID:     o.PaymentID,
        State:         string(o.State),
        TotalAmount:   o.TotalAmount,
        Items:         make([]OrderItemDTO, 0, len(o.Items)),
    }
    for _, it := range o.Items {
        dto.Items = append(dto.Items, OrderItemDTO{
            ID:           it.ID,
            TicketID:     it.TicketID,
            TicketCode:   it.TicketCode,
            LocationName: it.LocationName,
            Quantity:     it.Quantity,
            UnitPrice:    it.UnitPrice,
            Subtotal:     it.Subtotal,
        })
    }
    return dto
}

func ordersToDTO(orders []model.Order) []OrderDTO {
    out := make([]OrderDTO, 0, len(orders))
    for i := range orders {
        out = append(out, *orderToDTO(&orders[i]))
    }
    return out
}

// CreateDonationInput is the payload for DonationService.Create.
type CreateDonationInput struct {
    UserID        uint64          `json:"user_id"`
    DestinationID uint64          `json:"destination_id"`
    Amount        decimal.Decimal `json:"amount"`
    PaymentMethod string          `json:"payment_method"`
}

// DonationDTO is the API representation of a donation.
type DonationDTO struct {
    ID                 uint64          `json:"id"`
    UserID             uint64          `json:"user_id"`
    UserEmail          string          `json:"user_email"`
    UserName           string          `json:"user_name"`
    DestinationID      uint64          `json:"destination_id"`
    DestinationName    string          `json:"destination_name"`
    DestinationAddress string          `json:"destination_address"`
    Amount             decimal.Decimal `json:"amount"`
    PaymentMethod      string          `json:"payment_method"`
    State              string          `json:"state"`
    PaymentID          *string         `json:"payment_id,omitempty"`
    DonationDate       time.Time       `json:"donation_date"`
}

func donationToDTO(d *model.Donation) *DonationDTO {
    return &DonationDTO{
        ID:                 d.ID,
        UserID:             d.UserID,
        UserEmail:          d.UserEmail,
        UserName:           d.UserName,
        DestinationID:      d.DestinationID,
        DestinationName:    d.DestinationName,
        DestinationAddress: d.DestinationAddress,
        Amount:             d.Amount,
        PaymentMethod:      d.PaymentMethod,
        State:              string(d.State),
        PaymentID:          d.PaymentID,
        DonationDate:       d.DonationDate,
    }
}

func donationsToDTO(donations []model.Donation) []DonationDTO {
    out := make([]DonationDTO, 0, len(donations))
    for i := range donations {
        out = append(out, *donationToDTO(&donations[i]))
    }
    return out
}

// DonationStats aggregates approved donations for the admin dashboard.
type DonationStats struct {
    TotalCount    int                `json:"total_count"`
    TotalAmount   decimal.Decimal    `json:"total_amount"`
    MonthAmount   decimal.Decimal    `json:"month_amount"`
    AverageAmount decimal.Decimal    `json:"average_amount"`
    ByDestination []DestinationStats `json:"by_destination"`
}

// DestinationStats is the per-destination slice of DonationStats,
// sorted by total amount descending.
type DestinationStats struct {
    DestinationName string          `json:"destination_name"`
    Count           int             `json:"count"`
    Amount          decimal.Decimal `json:"amount"`
}

// TicketDTO is the API representation of a ticket within the event view.
type TicketDTO struct {
    ID           uint64          `json:"id"`
    Code         string          `json:"code"`
    LocationID   uint64          `json:"location_id"`
    LocationName string          `json:"location_name"`
    Price        decimal.Decimal `json:"price"`
    EventDate    time.Time       `json:"event_date"`
}

func ticketToDTO(t *model.Ticket) TicketDTO {
    return TicketDTO{
        ID:           t.ID,
        Code:         t.Code,
        LocationID:   t.LocationID,
        LocationName: t.LocationName,
        Price:        t.Price,
        EventDate:    t.EventDate,
    }
}

// EventWithTickets is one reconstructed event with its tickets grouped
// by stadium location.
type EventWithTickets struct {
    EventID    int64               `json:"event_id"`
    Title      string              `json:"title"`
    Detail     string              `json:"detail"`
    EventType  string              `json:"event_type"`
    EventDate  time.Time           `json:"event_date"`
    Locations  []TicketsByLocation `json:"locations"`
    TotalCount int                 `json:"total_count"`
    SoldCount  int                 `json:"sold_count"`
}

// TicketsByLocation groups the tickets of one event that share a
// stadium location.
type TicketsByLocation struct {
    LocationID       uint64          `json:"location_id"`
    LocationName     string          `json:"location_name"`
    Price            decimal.Decimal `json:"price"`
    AvailableCount   int             `json:"available_count"`
    SoldCount        int             `json:"sold_count"`
    AvailableTickets []TicketDTO     `json:"available_tickets"`
}

// PreferenceDTO is the checkout hand-off returned to the frontend.
type PreferenceDTO struct {
    PreferenceID string `json:"preference_id"`
    CheckoutURL  string `json:"checkout_url"`
}
