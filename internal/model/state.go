package model

import "fmt"

// PurchaseState enumerates the lifecycle states shared by orders and
// donations.  Values are stored as lowercase strings in the
// purchase_state columns.  Any state may be overwritten by any other
// state; only the value itself is validated at the service boundary.
type PurchaseState string

const (
    StatePending   PurchaseState = "pending"
    StateApproved  PurchaseState = "approved"
    StateRejected  PurchaseState = "rejected"
    StateCancelled PurchaseState = "cancelled"
)

// ParsePurchaseState validates a raw string against the closed set of
// purchase states.  It returns an error for unknown values so that
// handlers can reject bad input with a 400 before touching storage.
func ParsePurchaseState(s string) (PurchaseState, error) {
    switch PurchaseState(s) {
    case StatePending, StateApproved, StateRejected, StateCancelled:
        return PurchaseState(s), nil
    }
    return "", fmt.Errorf("unknown purchase state %q", s)
}

// Role enumerates user roles.  The admin role gates the management
// endpoints; everything else runs as a regular user.
type Role string

const (
    RoleUser  Role = "user"
    RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
    switch Role(s) {
    case RoleUser, RoleAdmin:
        return Role(s), nil
    }
    return "", fmt.Errorf("unknown role %q", s)
}
