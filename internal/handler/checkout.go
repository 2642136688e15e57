package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/service"
)

// CheckoutHandler bridges the frontend to the payment gateway.
type CheckoutHandler struct {
	Checkout *service.CheckoutService
}

func NewCheckoutHandler(s *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Checkout: s}
}

// CreateDonationPreference returns a checkout URL for a pending donation.
func (h *CheckoutHandler) CreateDonationPreference(c echo.Context) error {
	id, ok := pathID(c, "donationId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid donation id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	pref, err := h.Checkout.CreateDonationPreference(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, pref)
}

type ticketPrefReq struct {
	TicketIDs []uint64 `json:"ticket_ids"`
}

// CreateTicketPreference returns a checkout URL for a set of tickets.
// The buyer is the authenticated user.
func (h *CheckoutHandler) CreateTicketPreference(c echo.Context) error {
	var req ticketPrefReq
	if err := c.Bind(&req); err != nil || len(req.TicketIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_ids required"})
	}
	email := strings.TrimSpace(getEmail(c))
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pref, err := h.Checkout.CreateTicketPreference(ctx, email, req.TicketIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, pref)
}

// Webhook receives payment notifications from the gateway.  It always
// answers 200 "OK", even for malformed payloads, because the gateway
// retries any other status and a broken notification would be retried
// forever.
func (h *CheckoutHandler) Webhook(c echo.Context) error {
	var payload service.WebhookPayload
	if err := c.Bind(&payload); err == nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
		h.Checkout.HandleWebhook(ctx, payload)
	}
	return c.String(http.StatusOK, "OK")
}
