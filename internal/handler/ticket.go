package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/service"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/utils"
)

// TicketHandler exposes the admin ticket inventory and the public
// reconstructed event listing.
type TicketHandler struct {
	Tickets   *repository.TicketRepo
	Locations *repository.LocationRepo
	Events    *service.EventService
}

func NewTicketHandler(t *repository.TicketRepo, l *repository.LocationRepo, e *service.EventService) *TicketHandler {
	return &TicketHandler{Tickets: t, Locations: l, Events: e}
}

type createTicketsReq struct {
	LocationID uint64    `json:"location_id"`
	EventDate  time.Time `json:"event_date"`
	Quantity   int       `json:"quantity"`
	// Price overrides the location list price when non zero.
	Price decimal.Decimal `json:"price"`
}

type ticketResp struct {
	ID           uint64          `json:"id"`
	Code         string          `json:"code"`
	LocationID   uint64          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Price        decimal.Decimal `json:"price"`
	EventDate    time.Time       `json:"event_date"`
	Available    bool            `json:"available"`
}

func ticketToResp(t *model.Ticket) ticketResp {
	return ticketResp{
		ID:           t.ID,
		Code:         t.Code,
		LocationID:   t.LocationID,
		LocationName: t.LocationName,
		Price:        t.Price,
		EventDate:    t.EventDate,
		Available:    t.Available,
	}
}

func ticketsToResp(ts []model.Ticket) []ticketResp {
	out := make([]ticketResp, 0, len(ts))
	for i := range ts {
		out = append(out, ticketToResp(&ts[i]))
	}
	return out
}

// Create mints a batch of tickets for one location and event date.
// Each ticket gets its own unique code; the price snapshots the
// location list price unless an override is given.
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LocationID == 0 || req.EventDate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id and event_date required"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Quantity > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity too large"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	loc, err := h.Locations.GetByID(ctx, req.LocationID)
	if err != nil {
		return respondError(c, err)
	}
	price := loc.Price
	if req.Price.IsPositive() {
		price = req.Price
	}

	created := make([]ticketResp, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		t := &model.Ticket{
			Code:       utils.NewTicketCode(),
			LocationID: loc.ID,
			Price:      price,
			EventDate:  req.EventDate.UTC(),
			Available:  true,
		}
		if err := h.Tickets.Create(ctx, t); err != nil {
			return respondError(c, err)
		}
		t.LocationName = loc.Name
		created = append(created, ticketToResp(t))
	}
	return c.JSON(http.StatusCreated, created)
}

// List returns tickets.  Query params: location=<id>, available=true.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	availableOnly := c.QueryParam("available") == "true"
	if raw := c.QueryParam("location"); raw != "" {
		locID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location"})
		}
		ts, err := h.Tickets.ListByLocation(ctx, locID, availableOnly)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, ticketsToResp(ts))
	}
	var (
		ts  []model.Ticket
		err error
	)
	if availableOnly {
		ts, err = h.Tickets.ListAvailable(ctx)
	} else {
		ts, err = h.Tickets.ListAll(ctx)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticketsToResp(ts))
}

// Get returns one ticket by id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

// Delete removes an unsold ticket from the inventory.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tickets.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkSold claims a ticket by hand, outside any order.  Conflicts when
// the ticket is already sold.
func (h *TicketHandler) MarkSold(c echo.Context) error {
	return h.setAvailability(c, false)
}

// MarkAvailable returns a ticket to the sellable pool.
func (h *TicketHandler) MarkAvailable(c echo.Context) error {
	return h.setAvailability(c, true)
}

func (h *TicketHandler) setAvailability(c echo.Context, available bool) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	var err error
	if available {
		err = h.Tickets.MarkAvailable(ctx, id)
	} else {
		err = h.Tickets.MarkSold(ctx, id)
	}
	if err != nil {
		return respondError(c, err)
	}
	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

// Stats returns inventory counters for the admin dashboard.
func (h *TicketHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sold, err := h.Tickets.CountSold(ctx)
	if err != nil {
		return respondError(c, err)
	}
	locs, err := h.Locations.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	type locStat struct {
		LocationID   uint64 `json:"location_id"`
		LocationName string `json:"location_name"`
		Available    int64  `json:"available"`
	}
	perLoc := make([]locStat, 0, len(locs))
	for _, l := range locs {
		n, err := h.Tickets.CountAvailableByLocation(ctx, l.ID)
		if err != nil {
			return respondError(c, err)
		}
		perLoc = append(perLoc, locStat{LocationID: l.ID, LocationName: l.Name, Available: n})
	}
	return c.JSON(http.StatusOK, echo.Map{"sold": sold, "by_location": perLoc})
}

// EventsWithTickets is the public storefront view: events derived from
// the ticket inventory with per-location availability.
func (h *TicketHandler) EventsWithTickets(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	events, err := h.Events.EventsWithTickets(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// ListLocations lists the stadium sectors with their list prices.
func (h *TicketHandler) ListLocations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	locs, err := h.Locations.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	type locResp struct {
		ID       uint64          `json:"id"`
		Name     string          `json:"name"`
		Capacity uint32          `json:"capacity"`
		Price    decimal.Decimal `json:"price"`
	}
	out := make([]locResp, 0, len(locs))
	for _, l := range locs {
		out = append(out, locResp{ID: l.ID, Name: l.Name, Capacity: l.Capacity, Price: l.Price})
	}
	return c.JSON(http.StatusOK, out)
}
