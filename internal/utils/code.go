package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTicketCode returns a short unique ticket code such as TKT-3F9A01BC.
// The suffix is the first eight hex characters of a random UUID, which is
// enough to keep collisions practically impossible at club scale while
// staying printable on a paper ticket.
func NewTicketCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TKT-" + strings.ToUpper(id[:8])
}
