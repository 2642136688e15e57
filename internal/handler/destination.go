package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/service"
)

// DestinationHandler manages donation destinations.
type DestinationHandler struct {
	Destinations *service.DestinationService
}

func NewDestinationHandler(d *service.DestinationService) *DestinationHandler {
	return &DestinationHandler{Destinations: d}
}

type destResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Active  bool   `json:"active"`
}

func destToResp(d *model.Destination) destResp {
	return destResp{ID: d.ID, Name: d.Name, Address: d.Address, Phone: d.Phone, Active: d.Active}
}

// List returns destinations.  Public callers see only active ones;
// pass ?all=true on the admin route to include inactive entries.
func (h *DestinationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ds, err := h.Destinations.List(ctx, c.QueryParam("all") != "true")
	if err != nil {
		return respondError(c, err)
	}
	out := make([]destResp, 0, len(ds))
	for i := range ds {
		out = append(out, destToResp(&ds[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one destination.
func (h *DestinationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Destinations.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, destToResp(d))
}

// Create adds a destination.
func (h *DestinationHandler) Create(c echo.Context) error {
	var req service.CreateDestinationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Destinations.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, destToResp(d))
}

// Update edits a destination.
func (h *DestinationHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req service.CreateDestinationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Destinations.Update(ctx, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, destToResp(d))
}

// SetActive toggles a destination in or out of the public list.
func (h *DestinationHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Destinations.SetActive(ctx, id, req.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, destToResp(d))
}

// Delete removes a destination.  Responds 409 when donations still
// reference it.
func (h *DestinationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Destinations.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
