package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

// CalendarHandler exposes the public event calendar and the admin CRUD.
type CalendarHandler struct {
	Calendar *repository.CalendarRepo
	Types    *repository.EventTypeRepo
}

func NewCalendarHandler(cal *repository.CalendarRepo, t *repository.EventTypeRepo) *CalendarHandler {
	return &CalendarHandler{Calendar: cal, Types: t}
}

type calendarReq struct {
	Title       string    `json:"title"`
	Detail      string    `json:"detail"`
	Date        time.Time `json:"date"`
	EventTypeID uint64    `json:"event_type_id"`
}

type calendarResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Detail      string    `json:"detail"`
	AuthorID    uint64    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Date        time.Time `json:"date"`
	EventTypeID uint64    `json:"event_type_id"`
	EventType   string    `json:"event_type"`
	Active      bool      `json:"active"`
}

func calendarToResp(e *model.Calendar) calendarResp {
	return calendarResp{
		ID:          e.ID,
		Title:       e.Title,
		Detail:      e.Detail,
		AuthorID:    e.AuthorID,
		AuthorName:  e.AuthorName,
		Date:        e.Date,
		EventTypeID: e.EventTypeID,
		EventType:   e.EventTypeName,
		Active:      e.Active,
	}
}

func calendarListToResp(es []model.Calendar) []calendarResp {
	out := make([]calendarResp, 0, len(es))
	for i := range es {
		out = append(out, calendarToResp(&es[i]))
	}
	return out
}

// List returns calendar entries.  Query params: upcoming=true,
// date=YYYY-MM-DD, type=<id>, all=true (admin).
func (h *CalendarHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if c.QueryParam("upcoming") == "true" {
		es, err := h.Calendar.ListUpcoming(ctx, time.Now().UTC())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, calendarListToResp(es))
	}
	if raw := c.QueryParam("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		es, err := h.Calendar.ListByDate(ctx, day)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, calendarListToResp(es))
	}
	if raw := c.QueryParam("type"); raw != "" {
		typeID, ok := parseUintParam(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type"})
		}
		es, err := h.Calendar.ListByType(ctx, typeID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, calendarListToResp(es))
	}
	es, err := h.Calendar.List(ctx, c.QueryParam("all") != "true")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, calendarListToResp(es))
}

// Get returns one calendar entry.
func (h *CalendarHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Calendar.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, calendarToResp(e))
}

// Create adds a calendar entry authored by the authenticated admin.
func (h *CalendarHandler) Create(c echo.Context) error {
	var req calendarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || req.Date.IsZero() || req.EventTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, date and event_type_id required"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Types.GetByID(ctx, req.EventTypeID); err != nil {
		return respondError(c, err)
	}
	e := &model.Calendar{
		Title:       strings.TrimSpace(req.Title),
		Detail:      req.Detail,
		AuthorID:    uid,
		Date:        req.Date,
		EventTypeID: req.EventTypeID,
		Active:      true,
	}
	if err := h.Calendar.Create(ctx, e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, calendarToResp(e))
}

// Update edits a calendar entry.
func (h *CalendarHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req calendarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Calendar.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		e.Title = v
	}
	if req.Detail != "" {
		e.Detail = req.Detail
	}
	if !req.Date.IsZero() {
		e.Date = req.Date
	}
	if req.EventTypeID != 0 {
		if _, err := h.Types.GetByID(ctx, req.EventTypeID); err != nil {
			return respondError(c, err)
		}
		e.EventTypeID = req.EventTypeID
	}
	if err := h.Calendar.Update(ctx, e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, calendarToResp(e))
}

// Toggle flips the soft-delete state and returns the new value.
func (h *CalendarHandler) Toggle(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	active, err := h.Calendar.ToggleState(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": active})
}

// Delete removes a calendar entry permanently.
func (h *CalendarHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Calendar.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTypes returns the event categories.
func (h *CalendarHandler) ListTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	types, err := h.Types.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]typeResp, 0, len(types))
	for _, t := range types {
		out = append(out, typeResp{ID: t.ID, Type: t.Type})
	}
	return c.JSON(http.StatusOK, out)
}
