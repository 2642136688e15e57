package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/queue"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/repository"
	"github.com/113992-Menzi-Facundo/MundoPirata/internal/utils"
)

// UserHandler exposes the admin user directory plus self-service
// profile updates.
type UserHandler struct {
	Users    *repository.UserRepo
	Notifier notifier
}

func NewUserHandler(u *repository.UserRepo, n notifier) *UserHandler {
	return &UserHandler{Users: u, Notifier: n}
}

// List returns users, optionally filtered by role or a search term.
// Query params: role=user|admin, q=<term>.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if term := strings.TrimSpace(c.QueryParam("q")); term != "" {
		users, err := h.Users.Search(ctx, term)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, usersToParts(users))
	}
	if raw := c.QueryParam("role"); raw != "" {
		role, err := model.ParseRole(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
		users, err := h.Users.ListByRole(ctx, role)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, usersToParts(users))
	}
	users, err := h.Users.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, usersToParts(users))
}

// Get returns one user.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, userToPart(u))
}

type createUserReq struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DNI      string `json:"dni"`
	Role     string `json:"role"`
}

// Create lets an admin add an account directly, optionally with the
// admin role.  Self-service signups go through the auth register
// endpoint instead.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password required"})
	}
	role := model.RoleUser
	if req.Role != "" {
		var err error
		if role, err = model.ParseRole(req.Role); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
	}
	hash, err := utils.HashPassword(req.Password, 0)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &model.User{
		Name:         strings.TrimSpace(req.Name),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		PasswordHash: hash,
		DNI:          strings.TrimSpace(req.DNI),
		Role:         role,
		Enabled:      true,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, userToPart(u))
}

type updateUserReq struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	DNI      string `json:"dni"`
}

// Update edits the profile fields of a user.  Admins can edit anyone;
// regular users only themselves, enforced at route registration.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		u.LastName = v
	}
	if v := strings.TrimSpace(req.DNI); v != "" {
		u.DNI = v
	}
	if err := h.Users.Update(ctx, u); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, userToPart(u))
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole promotes or demotes a user.  The affected user gets a
// best-effort notification email about the change.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	oldRole := u.Role
	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		return respondError(c, err)
	}
	if oldRole != role {
		if err := h.Notifier.Publish(ctx, queue.Notification{
			Kind:    queue.KindRoleChanged,
			Email:   u.Email,
			Name:    u.FullName(),
			OldRole: string(oldRole),
			NewRole: string(role),
			SentAt:  time.Now().UTC(),
		}); err != nil {
			log.Printf("role change: notification for %s: %v", u.Email, err)
		}
	}
	u.Role = role
	return c.JSON(http.StatusOK, userToPart(u))
}

// SetEnabled flips the soft-delete flag.  Disabled users keep their
// history but can no longer log in.
func (h *UserHandler) SetEnabled(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetEnabled(ctx, id, req.Enabled); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "enabled": req.Enabled})
}

func usersToParts(users []model.User) []userPart {
	out := make([]userPart, 0, len(users))
	for i := range users {
		out = append(out, userToPart(&users[i]))
	}
	return out
}
