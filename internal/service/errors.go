package service

import "errors"

// Sentinel errors produced by the domain services.  Handlers translate
// them to HTTP status codes alongside the repository sentinels.
var (
    // ErrTicketUnavailable is returned when an order references a
    // ticket that is already sold or was claimed concurrently.
    ErrTicketUnavailable = errors.New("ticket is not available")

    // ErrInvalidAmount is returned when a donation amount is zero or
    // negative.
    ErrInvalidAmount = errors.New("amount must be greater than zero")

    // ErrInvalidState is returned when a state string does not parse
    // to a known purchase state.
    ErrInvalidState = errors.New("invalid state")

    // ErrGateway is returned when the payment gateway rejects or fails
    // a preference creation request.
    ErrGateway = errors.New("payment gateway request failed")
)
