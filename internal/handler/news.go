package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
)

// NewsHandler exposes the public news feed and the admin article CRUD.
type NewsHandler struct {
	News  *repository.NewsRepo
	Types *repository.NewsTypeRepo
}

func NewNewsHandler(n *repository.NewsRepo, t *repository.NewsTypeRepo) *NewsHandler {
	return &NewsHandler{News: n, Types: t}
}

type newsReq struct {
	TypeID  uint64    `json:"type_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

type newsResp struct {
	ID         uint64    `json:"id"`
	TypeID     uint64    `json:"type_id"`
	TypeName   string    `json:"type_name"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   uint64    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Date       time.Time `json:"date"`
	Active     bool      `json:"active"`
}

func newsToResp(n *model.News) newsResp {
	return newsResp{
		ID:         n.ID,
		TypeID:     n.TypeID,
		TypeName:   n.TypeName,
		Title:      n.Title,
		Content:    n.Content,
		AuthorID:   n.AuthorID,
		AuthorName: n.AuthorName,
		Date:       n.Date,
		Active:     n.Active,
	}
}

func newsListToResp(ns []model.News) []newsResp {
	out := make([]newsResp, 0, len(ns))
	for i := range ns {
		out = append(out, newsToResp(&ns[i]))
	}
	return out
}

// List returns news articles.  Public route sees active only; admin
// passes ?all=true.  Query params: q=<term>, type=<id>.
func (h *NewsHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if term := strings.TrimSpace(c.QueryParam("q")); term != "" {
		ns, err := h.News.Search(ctx, term)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, newsListToResp(ns))
	}
	if raw := c.QueryParam("type"); raw != "" {
		typeID, ok := parseUintParam(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type"})
		}
		ns, err := h.News.ListByType(ctx, typeID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, newsListToResp(ns))
	}
	ns, err := h.News.List(ctx, c.QueryParam("all") != "true")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newsListToResp(ns))
}

// Get returns one article.
func (h *NewsHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newsToResp(n))
}

// Create publishes a news article authored by the authenticated admin.
func (h *NewsHandler) Create(c echo.Context) error {
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || req.TypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and type_id required"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Types.GetByID(ctx, req.TypeID); err != nil {
		return respondError(c, err)
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	n := &model.News{
		TypeID:   req.TypeID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		AuthorID: uid,
		Date:     date,
		Active:   true,
	}
	if err := h.News.Create(ctx, n); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newsToResp(n))
}

// Update edits an article.
func (h *NewsHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		n.Title = v
	}
	if req.Content != "" {
		n.Content = req.Content
	}
	if req.TypeID != 0 {
		if _, err := h.Types.GetByID(ctx, req.TypeID); err != nil {
			return respondError(c, err)
		}
		n.TypeID = req.TypeID
	}
	if !req.Date.IsZero() {
		n.Date = req.Date
	}
	if err := h.News.Update(ctx, n); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newsToResp(n))
}

// Toggle flips the soft-delete state and returns the new value.
func (h *NewsHandler) Toggle(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	active, err := h.News.ToggleState(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": active})
}

// Delete removes an article permanently.
func (h *NewsHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.News.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTypes returns the news categories.
func (h *NewsHandler) ListTypes(c echo.Context) error {
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

// typeResp is the JSON shape shared by the news and event type lookups.
type typeResp struct {
	ID   uint64 `json:"id"`
	Type string `json:"type"`
}
