package router

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/handler"
)

func registeredRoutes(t *testing.T) map[string]bool {
	t.Helper()
	e := echo.New()
	h := Handlers{
		Auth:         &handler.AuthHandler{},
		Users:        &handler.UserHandler{},
		Tickets:      &handler.TicketHandler{},
		Orders:       &handler.OrderHandler{},
		Donations:    &handler.DonationHandler{},
		Destinations: &handler.DestinationHandler{},
		Checkout:     &handler.CheckoutHandler{},
		News:         &handler.NewsHandler{},
		Calendar:     &handler.CalendarHandler{},
		Map:          &handler.MapHandler{},
	}
	RegisterRoutes(e)
	RegisterPublic(e, h, nil)
	RegisterAuth(e, h, "secret")
	RegisterAdmin(e, h, "secret")

	routes := make(map[string]bool, len(e.Routes()))
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

// The mobile and web frontends hard-code these paths, so renaming any
// of them is a breaking change.
func TestFrontendFacingRoutes(t *testing.T) {
	routes := registeredRoutes(t)

	for _, want := range []string{
		"POST /api/orders",
		"GET /api/orders",
		"GET /api/orders/:id",
		"GET /api/orders/user/:id",
		"GET /api/orders/state/:state",
		"PUT /api/orders/:id/state",
		"PUT /api/orders/:id/payment-id",
		"PUT /api/orders/:id/cancel",
		"GET /api/orders/stats/total-sales",
		"POST /api/orders/process-purchase",
		"POST /api/donations",
		"GET /api/donations",
		"GET /api/donations/:id",
		"PUT /api/donations/:id/state",
		"PUT /api/donations/:id/payment-id",
		"PUT /api/donations/:id/cancel",
		"GET /api/donations/stats/total",
		"POST /api/donations/process-donation",
		"POST /api/checkout-pro/donations/:donationId/preference",
		"POST /api/checkout-pro/tickets/preference",
		"POST /api/checkout-pro/webhook",
		"POST /api/auth/login",
		"GET /api/auth/me",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

// Echo panics when a method and path pair is registered twice, so a
// clean registration already proves the groups do not overlap.  This
// guards the split between the user-level and admin-level /api groups.
func TestRegistrationDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { registeredRoutes(t) })
}
