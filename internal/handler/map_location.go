package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

// MapHandler exposes the club map points of interest.
type MapHandler struct {
	Map *repository.MapLocationRepo
}

func NewMapHandler(m *repository.MapLocationRepo) *MapHandler {
	return &MapHandler{Map: m}
}

type mapLocationReq struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Description   string `json:"description"`
	GoogleMapsURL string `json:"google_maps_url"`
}

type mapLocationResp struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Description   string `json:"description,omitempty"`
	GoogleMapsURL string `json:"google_maps_url,omitempty"`
	Active        bool   `json:"active"`
}

func mapToResp(m *model.MapLocation) mapLocationResp {
	return mapLocationResp{
		ID:            m.ID,
		Name:          m.Name,
		Address:       m.Address,
		Description:   m.Description,
		GoogleMapsURL: m.GoogleMapsURL,
		Active:        m.Active,
	}
}

func mapListToResp(ms []model.MapLocation) []mapLocationResp {
	out := make([]mapLocationResp, 0, len(ms))
	for i := range ms {
		out = append(out, mapToResp(&ms[i]))
	}
	return out
}

// List returns map points.  Query params: q=<term>, all=true (admin).
func (h *MapHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if term := strings.TrimSpace(c.QueryParam("q")); term != "" {
		ms, err := h.Map.Search(ctx, term)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, mapListToResp(ms))
	}
	ms, err := h.Map.List(ctx, c.QueryParam("all") != "true")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, mapListToResp(ms))
}

// Get returns one map point.
func (h *MapHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Map.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, mapToResp(m))
}

// Create adds a map point authored by the authenticated admin.
func (h *MapHandler) Create(c echo.Context) error {
	var req mapLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address required"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.MapLocation{
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		Description:   req.Description,
		GoogleMapsURL: strings.TrimSpace(req.GoogleMapsURL),
		AuthorID:      uid,
		Active:        true,
	}
	if err := h.Map.Create(ctx, m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, mapToResp(m))
}

// Update edits a map point.
func (h *MapHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req mapLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Map.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		m.Name = v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		m.Address = v
	}
	if req.Description != "" {
		m.Description = req.Description
	}
	if v := strings.TrimSpace(req.GoogleMapsURL); v != "" {
		m.GoogleMapsURL = v
	}
	if err := h.Map.Update(ctx, m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, mapToResp(m))
}

// Toggle flips the soft-delete state and returns the new value.
func (h *MapHandler) Toggle(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	active, err := h.Map.ToggleState(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": active})
}

// Delete removes a map point permanently.
func (h *MapHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Map.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
