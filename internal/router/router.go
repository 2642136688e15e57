package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/handler"    // import the handlers that implement business logic
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers bundles every handler the API mounts.  main builds one of
// these after wiring repositories and services.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Tickets      *handler.TicketHandler
	Orders       *handler.OrderHandler
	Donations    *handler.DonationHandler
	Destinations *handler.DestinationHandler
	Checkout     *handler.CheckoutHandler
	News         *handler.NewsHandler
	Calendar     *handler.CalendarHandler
	Map          *handler.MapHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated storefront endpoints.
// The optional cache middleware (nil disables it) wraps the read-heavy
// listings so repeated anonymous requests are served from Redis.
func RegisterPublic(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	g := e.Group("/api")
	if cache != nil {
		g.Use(cache)
	}

	// News feed and categories.
	g.GET("/news", h.News.List)
	g.GET("/news/:id", h.News.Get)
	g.GET("/news-types", h.News.ListTypes)

	// Event calendar and categories.
	g.GET("/calendar", h.Calendar.List)
	g.GET("/calendar/:id", h.Calendar.Get)
	g.GET("/event-types", h.Calendar.ListTypes)

	// Club map points of interest.
	g.GET("/map-locations", h.Map.List)
	g.GET("/map-locations/:id", h.Map.Get)

	// Ticket storefront: reconstructed events and stadium sectors.
	g.GET("/events-with-tickets", h.Tickets.EventsWithTickets)
	g.GET("/locations", h.Tickets.ListLocations)

	// Active donation destinations for the donation form.
	g.GET("/destinations", h.Destinations.List)

	// Payment gateway webhook.  The gateway calls without a session,
	// so the route is public and mounted outside the cached group.
	e.POST("/api/checkout-pro/webhook", h.Checkout.Webhook)

	// Payment-return endpoints hit by the gateway's back URLs after
	// checkout, before the webhook lands.  No session either.
	e.POST("/api/orders/process-purchase", h.Orders.ProcessPurchase)
	e.POST("/api/donations/process-donation", h.Donations.Process)
}

// RegisterAuth registers the authentication routes and the endpoints
// available to any logged-in user.
func RegisterAuth(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)

	auth := e.Group("/api")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("user", "admin"))

	auth.GET("/auth/me", h.Auth.Me)
	auth.PUT("/users/:id", h.Users.Update)

	// Orders: any authenticated user can buy and inspect their own.
	auth.POST("/orders", h.Orders.Create)
	auth.GET("/orders/mine", h.Orders.Mine)
	auth.GET("/orders/:id", h.Orders.Get)
	auth.PUT("/orders/:id/cancel", h.Orders.Cancel)

	// Donations.
	auth.POST("/donations", h.Donations.Create)
	auth.GET("/donations/mine", h.Donations.Mine)
	auth.GET("/donations/:id", h.Donations.Get)
	auth.PUT("/donations/:id/cancel", h.Donations.Cancel)

	// Checkout Pro preferences.
	auth.POST("/checkout-pro/donations/:donationId/preference", h.Checkout.CreateDonationPreference)
	auth.POST("/checkout-pro/tickets/preference", h.Checkout.CreateTicketPreference)
}

// RegisterAdmin registers the management surface.  Every route requires
// a valid token carrying the admin role.  The routes share the /api
// prefix with the user-level group; Echo routes each method and path
// exactly once, so nothing here may repeat a registration above.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("admin"))

	// User directory.  PUT /users/:id lives in the user-level group;
	// admins pass its role check, so it is not repeated here.
	g.POST("/users", h.Users.Create)
	g.GET("/users", h.Users.List)
	g.GET("/users/:id", h.Users.Get)
	g.PUT("/users/:id/role", h.Users.UpdateRole)
	g.PUT("/users/:id/enabled", h.Users.SetEnabled)

	// Ticket inventory.
	g.POST("/tickets", h.Tickets.Create)
	g.GET("/tickets", h.Tickets.List)
	g.GET("/tickets/:id", h.Tickets.Get)
	g.DELETE("/tickets/:id", h.Tickets.Delete)
	g.PUT("/tickets/:id/sold", h.Tickets.MarkSold)
	g.PUT("/tickets/:id/available", h.Tickets.MarkAvailable)
	g.GET("/tickets/stats", h.Tickets.Stats)

	// Orders.
	g.GET("/orders", h.Orders.List)
	g.GET("/orders/user/:id", h.Orders.ListByUser)
	g.GET("/orders/state/:state", h.Orders.ListByState)
	g.GET("/orders/stats/total-sales", h.Orders.TotalSales)
	g.PUT("/orders/:id/state", h.Orders.UpdateState)
	g.PUT("/orders/:id/payment-id", h.Orders.UpdatePayment)

	// Donations.
	g.GET("/donations", h.Donations.List)
	g.GET("/donations/stats/total", h.Donations.Statistics)
	g.PUT("/donations/:id/state", h.Donations.UpdateState)
	g.PUT("/donations/:id/payment-id", h.Donations.UpdatePayment)

	// Destinations.  The public group already serves the GETs.
	g.POST("/destinations", h.Destinations.Create)
	g.GET("/destinations/:id", h.Destinations.Get)
	g.PUT("/destinations/:id", h.Destinations.Update)
	g.PUT("/destinations/:id/active", h.Destinations.SetActive)
	g.DELETE("/destinations/:id", h.Destinations.Delete)

	// News.
	g.POST("/news", h.News.Create)
	g.PUT("/news/:id", h.News.Update)
	g.PUT("/news/:id/toggle", h.News.Toggle)
	g.DELETE("/news/:id", h.News.Delete)

	// Calendar.
	g.POST("/calendar", h.Calendar.Create)
	g.PUT("/calendar/:id", h.Calendar.Update)
	g.PUT("/calendar/:id/toggle", h.Calendar.Toggle)
	g.DELETE("/calendar/:id", h.Calendar.Delete)

	// Map.
	g.POST("/map-locations", h.Map.Create)
	g.PUT("/map-locations/:id", h.Map.Update)
	g.PUT("/map-locations/:id/toggle", h.Map.Toggle)
	g.DELETE("/map-locations/:id", h.Map.Delete)
}
