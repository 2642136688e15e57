package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/service"
)

// DonationHandler exposes the donation lifecycle and statistics.
type DonationHandler struct {
	Donations *service.DonationService
}

func NewDonationHandler(d *service.DonationService) *DonationHandler {
	return &DonationHandler{Donations: d}
}

// Create registers a pending donation for the authenticated user.
func (h *DonationHandler) Create(c echo.Context) error {
	var req service.CreateDonationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req.UserID = uid
	if req.DestinationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "destination_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Get returns one donation.
func (h *DonationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// List returns all donations, optionally filtered by user, state or
// destination.  Query params: user=, state=, destination=.
func (h *DonationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if raw := c.QueryParam("user"); raw != "" {
		uid, ok := parseUintParam(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user"})
		}
		ds, err := h.Donations.ListByUser(ctx, uid)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, ds)
	}
	if state := c.QueryParam("state"); state != "" {
		ds, err := h.Donations.ListByState(ctx, state)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, ds)
	}
	if raw := c.QueryParam("destination"); raw != "" {
		destID, ok := parseUintParam(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination"})
		}
		ds, err := h.Donations.ListByDestination(ctx, destID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, ds)
	}
	ds, err := h.Donations.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

// Mine returns the authenticated user's donations.
func (h *DonationHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Donations.ListByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

// UpdateState overwrites the donation state.
func (h *DonationHandler) UpdateState(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateStateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.UpdateState(ctx, id, req.State)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// UpdatePayment attaches a gateway payment id.
func (h *DonationHandler) UpdatePayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PaymentID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_id required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.UpdatePaymentID(ctx, id, strings.TrimSpace(req.PaymentID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Cancel cancels a donation.
func (h *DonationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Cancel(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Process is the payment-return endpoint hit after checkout.
// Query params: donationId, paymentStatus, paymentId (optional).
func (h *DonationHandler) Process(c echo.Context) error {
	id, ok := parseUintParam(c.QueryParam("donationId"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "donationId required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.ProcessDonation(ctx, id, c.QueryParam("paymentStatus"), c.QueryParam("paymentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Statistics returns the approved-donation aggregates.
func (h *DonationHandler) Statistics(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Donations.Statistics(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
